// Package normalize rewrites informal patient-typed text into clean medical
// phrasing. The pipeline is pure and deterministic: abbreviation expansion,
// medical spelling correction, contextual temporal templates, then pronoun and
// subject-verb repair, with known medical entities guarded from alteration
// throughout. It never fails an utterance; the worst case is an identity
// transform with full confidence.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Correction describes one applied rewrite.
type Correction struct {
	Kind   string `json:"kind"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Result is the immutable outcome of normalizing a single utterance.
type Result struct {
	OriginalText      string       `json:"original_text"`
	NormalizedText    string       `json:"normalized_text"`
	Corrections       []Correction `json:"corrections,omitempty"`
	Confidence        float64      `json:"confidence"`
	PreservedEntities []string     `json:"preserved_entities,omitempty"`
}

const minConfidence = 0.5

var tokenPattern = regexp.MustCompile(`[a-zA-Z]+`)

// Normalize runs the full correction pipeline over raw patient text.
func Normalize(raw string) Result {
	res := Result{OriginalText: raw, Confidence: 1.0}

	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return res
	}

	guard := newEntityGuard()
	guard.observe(text)

	text = applyRules(abbreviationRules, text, &res)
	text = applySpelling(text, &res, guard)
	text = applyRules(temporalRules, text, &res)
	text = applyRules(grammarRules, text, &res)

	guard.observe(text)
	res.PreservedEntities = guard.seen()
	res.NormalizedText = capitalize(text)

	if res.Confidence < minConfidence {
		res.Confidence = minConfidence
	}
	return res
}

func applyRules(rules []rewriteRule, text string, res *Result) string {
	for _, r := range rules {
		matches := r.pattern.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		rewritten := r.pattern.ReplaceAllString(text, r.replacement)
		for _, m := range matches {
			after := r.pattern.ReplaceAllString(m, r.replacement)
			if after == m {
				continue
			}
			res.record(r.kind, m, after, r.penalty)
		}
		text = rewritten
	}
	return text
}

// applySpelling corrects token-level misspellings against the medical
// dictionary. Guarded entities and common words pass through untouched; so
// does anything with no close dictionary candidate.
func applySpelling(text string, res *Result, guard *entityGuard) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		lower := strings.ToLower(token)
		if len(lower) < 4 || knownWords[lower] || guard.isEntity(lower) {
			return token
		}

		corrected, ok := misspellings[lower]
		if !ok {
			corrected, ok = nearestMedicalTerm(lower)
		}
		if !ok || corrected == lower {
			return token
		}
		res.record(KindSpelling, token, corrected, penaltySpelling)
		return corrected
	})
}

// nearestMedicalTerm returns the dictionary term within the edit-distance
// threshold of the token, if any. Threshold scales with token length; ties
// resolve to the lexicographically first term.
func nearestMedicalTerm(token string) (string, bool) {
	threshold := 1
	if len(token) > 5 {
		threshold = 2
	}

	best := ""
	bestDist := threshold + 1
	for _, term := range medicalTerms {
		d := levenshtein.ComputeDistance(token, term)
		if d < bestDist {
			best, bestDist = term, d
		}
	}
	if best == "" || bestDist == 0 {
		return "", false
	}
	return best, true
}

func (r *Result) record(kind, before, after string, penalty float64) {
	r.Corrections = append(r.Corrections, Correction{Kind: kind, Before: before, After: after})
	r.Confidence -= penalty
}

func capitalize(text string) string {
	for i, r := range text {
		if unicode.IsLetter(r) {
			return text[:i] + string(unicode.ToUpper(r)) + text[i+len(string(r)):]
		}
		if !unicode.IsSpace(r) {
			break
		}
	}
	return text
}

// entityGuard tracks which known medical entities appear in the text so they
// can be reported as preserved and skipped by the spelling stage.
type entityGuard struct {
	found map[string]bool
	order []string
}

func newEntityGuard() *entityGuard {
	return &entityGuard{found: map[string]bool{}}
}

func (g *entityGuard) observe(text string) {
	lower := " " + strings.ToLower(text) + " "
	for _, entity := range medicalEntities {
		if g.found[entity] {
			continue
		}
		if containsPhrase(lower, entity) {
			g.found[entity] = true
			g.order = append(g.order, entity)
		}
	}
}

func (g *entityGuard) isEntity(token string) bool {
	for _, entity := range medicalEntities {
		if entity == token {
			return true
		}
	}
	return false
}

func (g *entityGuard) seen() []string {
	return g.order
}

// containsPhrase reports whether the phrase occurs on word boundaries within
// text, which must be lowercased and padded with spaces.
func containsPhrase(text, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		if !isWordChar(text[start-1]) && end < len(text) && !isWordChar(text[end]) {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
