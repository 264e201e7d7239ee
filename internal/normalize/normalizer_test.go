package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(res Result) map[string]int {
	m := map[string]int{}
	for _, c := range res.Corrections {
		m[c.Kind]++
	}
	return m
}

func TestNormalizeSubjectVerbAndTemporal(t *testing.T) {
	res := Normalize("i having fever 2 days")

	require.Equal(t, "I have been having a fever for 2 days", res.NormalizedText)
	k := kinds(res)
	assert.GreaterOrEqual(t, k[KindSubjectVerb], 1, "expected a subject-verb correction")
	assert.GreaterOrEqual(t, k[KindTemporal], 1, "expected a temporal correction")
	assert.GreaterOrEqual(t, res.Confidence, 0.5)
	assert.Less(t, res.Confidence, 1.0)
}

func TestNormalizePronounAndMissingSubject(t *testing.T) {
	res := Normalize("me chest hurt when breath")
	require.Equal(t, "My chest hurts when I breathe", res.NormalizedText)
}

func TestNormalizeSpelling(t *testing.T) {
	res := Normalize("haedache really bad")

	require.Equal(t, "Headache really bad", res.NormalizedText)
	require.Equal(t, 1, kinds(res)[KindSpelling], "expected exactly one spelling correction")
	require.Len(t, res.Corrections, 1)
	assert.Equal(t, "haedache", res.Corrections[0].Before)
	assert.Equal(t, "headache", res.Corrections[0].After)
}

func TestNormalizeAbbreviation(t *testing.T) {
	res := Normalize("stomach ache n vomiting")

	require.Equal(t, "Stomach ache and vomiting", res.NormalizedText)
	require.Equal(t, 1, kinds(res)[KindAbbreviation])
	assert.Contains(t, res.PreservedEntities, "stomach ache")
	assert.Contains(t, res.PreservedEntities, "vomiting")
}

func TestNormalizeEditDistanceFallback(t *testing.T) {
	res := Normalize("i think i have diabetis")
	assert.Equal(t, "I think I have diabetes", res.NormalizedText)

	res = Normalize("my migrane is back")
	assert.Equal(t, "My migraine is back", res.NormalizedText)
}

func TestNormalizeEmptyInput(t *testing.T) {
	res := Normalize("")
	assert.Equal(t, "", res.NormalizedText)
	assert.Empty(t, res.Corrections)
	assert.Equal(t, 1.0, res.Confidence)

	res = Normalize("   ")
	assert.Equal(t, "", res.NormalizedText)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestNormalizeUnrecognizedPassesThrough(t *testing.T) {
	res := Normalize("zzqx vlorp 9981")
	assert.Equal(t, "Zzqx vlorp 9981", res.NormalizedText)
	assert.Empty(t, res.Corrections)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"i having fever 2 days",
		"me chest hurt when breath",
		"haedache really bad",
		"stomach ache n vomiting",
		"im dizzy n cant sleep since 3 days",
		"my back hurt w/ sharp pain",
		"I have been having a fever for 2 days",
		"feaver and coff for a week",
		"",
	}
	for _, in := range inputs {
		first := Normalize(in)
		second := Normalize(first.NormalizedText)
		assert.Equal(t, first.NormalizedText, second.NormalizedText, "input %q not a fixed point", in)
		assert.Empty(t, second.Corrections, "re-normalizing %q applied corrections", first.NormalizedText)
	}
}

func TestNormalizeConfidenceBounds(t *testing.T) {
	inputs := []string{
		"i having fever 2 days n haedache since 3 days n vomitting from 2 weeks",
		"me chest hurt when breath n me head hurt",
		"feaver 2 days coff 3 weeks pain 4 hours bleeding 5 days",
		"hello doctor",
		"",
	}
	for _, in := range inputs {
		res := Normalize(in)
		assert.GreaterOrEqual(t, res.Confidence, 0.5, "input %q", in)
		assert.LessOrEqual(t, res.Confidence, 1.0, "input %q", in)
	}
}

func TestNormalizePreservesEntities(t *testing.T) {
	res := Normalize("sore throat and fever since 2 days")
	assert.Contains(t, res.PreservedEntities, "sore throat")
	assert.Contains(t, res.PreservedEntities, "fever")
	assert.Equal(t, "Sore throat and fever for the past 2 days", res.NormalizedText)

	for _, c := range res.Corrections {
		assert.NotEqual(t, KindSpelling, c.Kind, "guarded entity was respelled: %+v", c)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	res := Normalize("  fever   and   chills ")
	assert.Equal(t, "Fever and chills", res.NormalizedText)
}
