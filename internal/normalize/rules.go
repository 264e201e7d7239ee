package normalize

import (
	"regexp"
	"sort"
)

// Correction kinds, reported per applied rewrite.
const (
	KindAbbreviation = "abbreviation"
	KindSpelling     = "spelling"
	KindTemporal     = "temporal"
	KindSubjectVerb  = "subject_verb"
	KindGrammar      = "grammar"
	KindPronoun      = "pronoun"
)

// Per-kind confidence penalties. Temporal reinterpretation is the most
// speculative rewrite and carries the largest deduction.
const (
	penaltyAbbreviation = 0.0
	penaltyPronoun      = 0.02
	penaltySpelling     = 0.05
	penaltySubjectVerb  = 0.05
	penaltyGrammar      = 0.05
	penaltyTemporal     = 0.10
)

// rewriteRule is one entry of the ordered, data-driven correction table.
// Rules within a stage apply top to bottom; a rule sees the output of every
// rule before it.
type rewriteRule struct {
	kind        string
	pattern     *regexp.Regexp
	replacement string
	penalty     float64
}

// abbreviations expand patient shorthand token-by-token. Replacements are
// literal, no capture groups.
var abbreviations = map[string]string{
	"abt":   "about",
	"b4":    "before",
	"bc":    "because",
	"cant":  "cannot",
	"cuz":   "because",
	"didnt": "did not",
	"dont":  "do not",
	"hrs":   "hours",
	"im":    "I am",
	"isnt":  "is not",
	"ive":   "I have",
	"n":     "and",
	"pls":   "please",
	"plz":   "please",
	"rn":    "right now",
	"tmrw":  "tomorrow",
	"u":     "you",
	"ur":    "your",
	"w/":    "with",
	"wont":  "will not",
	"yrs":   "years",
}

var abbreviationRules = buildAbbreviationRules()

func buildAbbreviationRules() []rewriteRule {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]rewriteRule, 0, len(keys))
	for _, k := range keys {
		// Trailing non-word characters (w/) end the token on their own.
		expr := `\b` + regexp.QuoteMeta(k)
		if r := k[len(k)-1]; (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			expr += `\b`
		}
		rules = append(rules, rewriteRule{
			kind:        KindAbbreviation,
			pattern:     regexp.MustCompile(expr),
			replacement: abbreviations[k],
			penalty:     penaltyAbbreviation,
		})
	}
	return rules
}

const symptomNouns = `fever|headache|cough|cold|rash|migraine|sore throat|stomach ache|runny nose`

const bodyParts = `chest|head|stomach|back|throat|neck|arm|leg|knee|shoulder|foot|hand|eye|ear|tooth|heart|skin|body`

// temporalRules reinterpret numerals adjacent to symptom/duration cues. They
// fire only on these fixed templates, never on free-standing numbers.
var temporalRules = []rewriteRule{
	{
		kind:        KindTemporal,
		pattern:     regexp.MustCompile(`\b(` + symptomNouns + `|pain|vomiting|diarrhea|nausea|dizziness|bleeding|swelling|coughing) (\d+) (day|days|week|weeks|hour|hours|month|months|year|years)\b`),
		replacement: "$1 for $2 $3",
		penalty:     penaltyTemporal,
	},
	{
		kind:        KindTemporal,
		pattern:     regexp.MustCompile(`\bsince (\d+) (days|weeks|hours|months)\b`),
		replacement: "for the past $1 $2",
		penalty:     penaltyTemporal,
	},
	{
		kind:        KindTemporal,
		pattern:     regexp.MustCompile(`\bfrom (\d+) (days|weeks|hours|months)\b`),
		replacement: "for $1 $2",
		penalty:     penaltyTemporal,
	},
}

// grammarRules fix first-person pronoun case and the tense patterns common in
// informal patient speech. Order matters: compound templates go before the
// bare-pronoun fallback.
var grammarRules = []rewriteRule{
	{
		kind:        KindSubjectVerb,
		pattern:     regexp.MustCompile(`\bi having\b`),
		replacement: "I have been having",
		penalty:     penaltySubjectVerb,
	},
	{
		kind:        KindSubjectVerb,
		pattern:     regexp.MustCompile(`\bi am have\b`),
		replacement: "I have",
		penalty:     penaltySubjectVerb,
	},
	{
		kind:        KindPronoun,
		pattern:     regexp.MustCompile(`\bme (` + bodyParts + `)\b`),
		replacement: "my $1",
		penalty:     penaltyPronoun,
	},
	{
		kind:        KindSubjectVerb,
		pattern:     regexp.MustCompile(`\b(` + bodyParts + `) hurt\b`),
		replacement: "$1 hurts",
		penalty:     penaltySubjectVerb,
	},
	{
		kind:        KindGrammar,
		pattern:     regexp.MustCompile(`\bwhen breath\b`),
		replacement: "when I breathe",
		penalty:     penaltyGrammar,
	},
	{
		kind:        KindGrammar,
		pattern:     regexp.MustCompile(`\bwhen (cough|coughing|swallow|walk|walking|move|moving|eat|eating|bend|stand|sit)\b`),
		replacement: "when I $1",
		penalty:     penaltyGrammar,
	},
	{
		kind:        KindGrammar,
		pattern:     regexp.MustCompile(`\b([Hh]ave been having|[Hh]aving|[Hh]ave|[Hh]as|[Hh]ad) (` + symptomNouns + `)\b`),
		replacement: "$1 a $2",
		penalty:     penaltyGrammar,
	},
	{
		kind:        KindPronoun,
		pattern:     regexp.MustCompile(`\bi\b`),
		replacement: "I",
		penalty:     0,
	},
}
