// Package extract scans normalized patient text for symptom-like phrases.
// It deliberately keeps duplicate literal mentions within a turn: occurrence
// count and timing carry diagnostic signal, and deduplication is the memory
// layer's job.
package extract

import (
	"regexp"
	"strings"
)

// Source tags where a symptom candidate came from.
type Source string

const (
	SourceUserMessage Source = "user_message"
	SourceAIAnalysis  Source = "ai_analysis"
)

// Candidate is one symptom-like phrase found in a turn.
type Candidate struct {
	Name    string `json:"name"`
	Excerpt string `json:"excerpt,omitempty"`
	Source  Source `json:"source"`
}

// symptomVocabulary is the closed set of symptom nouns scanned for directly.
var symptomVocabulary = []string{
	"shortness of breath",
	"sore throat",
	"stomach ache",
	"chest pain",
	"back pain",
	"runny nose",
	"blurred vision",

	"bleeding", "chills", "confusion", "constipation", "cough",
	"cramps", "dehydration", "diarrhea", "dizziness", "fainting",
	"fatigue", "fever", "headache", "insomnia", "itching",
	"migraine", "nausea", "numbness", "palpitations", "rash",
	"seizure", "sweating", "swelling", "vomiting", "weakness", "wheezing",
}

var (
	// First-person symptom declarations: "I have been having a fever",
	// "suffering from migraines".
	firstPersonPattern = regexp.MustCompile(`(?i)\b(?:I have been having|I am having|I have got|I have|I keep getting|I feel|I am feeling|suffering from)\s+(?:a |an |the )?([a-z]+(?: [a-z]+)?)`)

	// Pain templates: "<body part> hurts", "<body part> pain/ache".
	hurtPattern = regexp.MustCompile(`(?i)\b(chest|head|stomach|back|throat|neck|arm|leg|knee|shoulder|foot|hand|ear|eye|heart)\s+hurts?\b`)
	achePattern = regexp.MustCompile(`(?i)\b(chest|head|stomach|back|neck|arm|leg|knee|shoulder|muscle|joint|body)\s+(pain|ache|aches)\b`)
)

type span struct{ start, end int }

func (s span) overlaps(o span) bool { return s.start < o.end && o.start < s.end }

// Extract returns symptom candidates found in a normalized utterance, tagged
// with user_message provenance. Text spans claimed by a template are excluded
// from the vocabulary scan so a single mention is reported once, while repeat
// mentions elsewhere in the utterance are all kept.
func Extract(normalized string) []Candidate {
	if strings.TrimSpace(normalized) == "" {
		return nil
	}

	var out []Candidate
	var claimed []span

	for _, m := range hurtPattern.FindAllStringSubmatchIndex(normalized, -1) {
		out = append(out, Candidate{
			Name:    strings.ToLower(normalized[m[2]:m[3]]) + " pain",
			Excerpt: normalized[m[0]:m[1]],
			Source:  SourceUserMessage,
		})
		claimed = append(claimed, span{m[0], m[1]})
	}
	for _, m := range achePattern.FindAllStringSubmatchIndex(normalized, -1) {
		name := strings.ToLower(normalized[m[2]:m[3]]) + " " + singularAche(strings.ToLower(normalized[m[4]:m[5]]))
		out = append(out, Candidate{
			Name:    name,
			Excerpt: normalized[m[0]:m[1]],
			Source:  SourceUserMessage,
		})
		claimed = append(claimed, span{m[0], m[1]})
	}
	for _, m := range firstPersonPattern.FindAllStringSubmatchIndex(normalized, -1) {
		captured := strings.ToLower(normalized[m[2]:m[3]])
		name, ok := vocabularyName(captured)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Name:    name,
			Excerpt: normalized[m[0]:m[1]],
			Source:  SourceUserMessage,
		})
		claimed = append(claimed, span{m[2], m[3]})
	}

	lower := strings.ToLower(normalized)
	for _, term := range symptomVocabulary {
		for _, hit := range phraseSpans(lower, term) {
			taken := false
			for _, c := range claimed {
				if hit.overlaps(c) {
					taken = true
					break
				}
			}
			if !taken {
				out = append(out, Candidate{Name: term, Excerpt: term, Source: SourceUserMessage})
			}
		}
	}
	return out
}

// FromAnalysis converts an externally generated differential-diagnosis list
// into candidates tagged with ai_analysis provenance.
func FromAnalysis(diagnoses []string) []Candidate {
	var out []Candidate
	for _, d := range diagnoses {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		out = append(out, Candidate{Name: d, Excerpt: d, Source: SourceAIAnalysis})
	}
	return out
}

// vocabularyName maps a captured phrase onto the closed vocabulary. The
// capture may trail into following words ("fever for"), so a term matching
// the leading words is accepted.
func vocabularyName(captured string) (string, bool) {
	captured = strings.TrimSpace(captured)
	for _, term := range symptomVocabulary {
		if strings.HasPrefix(captured+" ", term+" ") {
			return term, true
		}
	}
	return "", false
}

func singularAche(w string) string {
	if w == "aches" {
		return "ache"
	}
	return w
}

// phraseSpans returns every word-boundary occurrence of phrase in text, which
// must be lowercased.
func phraseSpans(text, phrase string) []span {
	var spans []span
	off := 0
	for {
		i := strings.Index(text[off:], phrase)
		if i < 0 {
			return spans
		}
		start := off + i
		end := start + len(phrase)
		startOK := start == 0 || !isWordChar(text[start-1])
		endOK := end == len(text) || !isWordChar(text[end])
		if startOK && endOK {
			spans = append(spans, span{start, end})
		}
		off = start + 1
	}
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
