// Package triage grades a turn's urgency from normalized text and extracted
// symptoms. Detection is conservative: when a phrase matches more than one
// tier, the higher tier wins. A missed emergency costs far more than a false
// alarm.
package triage

import (
	"strings"

	"medical-intake-engine/internal/extract"
)

// Level is the urgency tier of a turn. Ordering is significant: higher values
// are more urgent.
type Level int

const (
	Routine Level = iota
	Urgent
	Emergency
)

func (l Level) String() string {
	switch l {
	case Emergency:
		return "emergency"
	case Urgent:
		return "urgent"
	default:
		return "routine"
	}
}

// ParseLevel maps an advisory urgency hint onto a Level. Unknown values parse
// as routine: an unintelligible hint must not escalate on its own.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "emergency":
		return Emergency
	case "urgent":
		return Urgent
	default:
		return Routine
	}
}

// Merge combines two urgency signals, resolving to the higher tier.
func Merge(a, b Level) Level {
	if b > a {
		return b
	}
	return a
}

// emergencyMarkers force immediate escalation.
var emergencyMarkers = []string{
	"anaphylaxis",
	"cannot breathe",
	"can not breathe",
	"chest pain",
	"coughing blood",
	"crushing pain",
	"difficulty breathing",
	"face drooping",
	"heart attack",
	"not breathing",
	"overdose",
	"passed out",
	"seizure",
	"severe allergic",
	"severe bleeding",
	"bleeding heavily",
	"slurred speech",
	"stroke",
	"struggling to breathe",
	"suicidal",
	"throat swelling",
	"unconscious",
	"vomiting blood",
	"want to die",
}

// urgentMarkers warrant same-day attention but not immediate escalation.
var urgentMarkers = []string{
	"blood in stool",
	"blood in urine",
	"broken bone",
	"confusion",
	"deep cut",
	"dehydration",
	"fainted",
	"fainting",
	"high fever",
	"numbness",
	"palpitations",
	"persistent vomiting",
	"severe headache",
	"severe pain",
	"shortness of breath",
	"stiff neck",
	"worst headache",
}

// Scan grades the urgency of a turn. Both the normalized text and the
// extracted symptom names are checked; the highest matching tier wins.
func Scan(normalized string, symptoms []extract.Candidate) Level {
	level := Routine

	haystacks := []string{strings.ToLower(normalized)}
	for _, s := range symptoms {
		haystacks = append(haystacks, s.Name)
	}

	for _, h := range haystacks {
		if matchesAny(h, emergencyMarkers) {
			return Emergency
		}
		if matchesAny(h, urgentMarkers) {
			level = Merge(level, Urgent)
		}
	}
	return level
}

// Markers lists the marker phrases of the given tier found in the text, for
// recording into conversation memory.
func Markers(normalized string, symptoms []extract.Candidate, level Level) []string {
	var source []string
	switch level {
	case Emergency:
		source = emergencyMarkers
	case Urgent:
		source = urgentMarkers
	default:
		return nil
	}

	haystack := strings.ToLower(normalized)
	for _, s := range symptoms {
		haystack += " | " + s.Name
	}

	var found []string
	for _, m := range source {
		if strings.Contains(haystack, m) {
			found = append(found, m)
		}
	}
	return found
}

func matchesAny(haystack string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(haystack, m) {
			return true
		}
	}
	return false
}
