package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medical-intake-engine/internal/extract"
)

func TestScanTiers(t *testing.T) {
	tests := []struct {
		text string
		want Level
	}{
		{"Mild headache since yesterday", Routine},
		{"I have a high fever and a stiff neck", Urgent},
		{"My chest pain is getting worse", Emergency},
		{"I cannot breathe properly", Emergency},
		{"Feeling fine, just a routine question", Routine},
		{"", Routine},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Scan(tt.text, nil), "text %q", tt.text)
	}
}

func TestScanConservativeBias(t *testing.T) {
	// Matches an urgent marker (shortness of breath) and an emergency marker
	// (difficulty breathing): the higher tier must win.
	got := Scan("shortness of breath and difficulty breathing", nil)
	assert.Equal(t, Emergency, got)

	// Same ambiguity arriving via extracted symptoms.
	got = Scan("feeling unwell", []extract.Candidate{
		{Name: "shortness of breath", Source: extract.SourceUserMessage},
		{Name: "chest pain", Source: extract.SourceUserMessage},
	})
	assert.Equal(t, Emergency, got)
}

func TestScanUsesExtractedSymptoms(t *testing.T) {
	// "my chest hurts" normalizes without the literal phrase "chest pain";
	// the extracted symptom name still carries the signal.
	got := Scan("My chest hurts when I breathe", []extract.Candidate{
		{Name: "chest pain", Source: extract.SourceUserMessage},
	})
	assert.Equal(t, Emergency, got)
}

func TestMergeTakesHigherTier(t *testing.T) {
	assert.Equal(t, Emergency, Merge(Urgent, Emergency))
	assert.Equal(t, Emergency, Merge(Emergency, Routine))
	assert.Equal(t, Urgent, Merge(Routine, Urgent))
	assert.Equal(t, Routine, Merge(Routine, Routine))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Emergency, ParseLevel("EMERGENCY"))
	assert.Equal(t, Urgent, ParseLevel(" urgent "))
	assert.Equal(t, Routine, ParseLevel("routine"))
	assert.Equal(t, Routine, ParseLevel("???"))
	assert.Equal(t, Routine, ParseLevel(""))
}

func TestMarkersRecorded(t *testing.T) {
	markers := Markers("severe bleeding after a fall", nil, Emergency)
	assert.Contains(t, markers, "severe bleeding")

	assert.Nil(t, Markers("mild headache", nil, Routine))
}
