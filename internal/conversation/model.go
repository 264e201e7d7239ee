package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the current phase of the intake dialogue.
type Stage string

const (
	StageGreeting             Stage = "greeting"
	StageHistoryTaking        Stage = "history_taking"
	StageSymptomClarification Stage = "symptom_clarification"
	StageRiskAssessment       Stage = "risk_assessment"
	StageRecommendation       Stage = "recommendation"
	StageClosure              Stage = "closure"
	StageEmergencyEscalation  Stage = "emergency_escalation"
)

// stageOrder positions the main sequence for forward-only checks. The
// escalation stage sits outside the sequence.
var stageOrder = map[Stage]int{
	StageGreeting:             0,
	StageHistoryTaking:        1,
	StageSymptomClarification: 2,
	StageRiskAssessment:       3,
	StageRecommendation:       4,
	StageClosure:              5,
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	if s == StageEmergencyEscalation {
		return true
	}
	_, ok := stageOrder[s]
	return ok
}

// Symptom is what the patient disclosed, or what downstream analysis
// surfaced, in a single mention.
type Symptom struct {
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
	Source string `json:"source"`
}

// SymptomEntry is one append-only record in the disclosure history. Entries
// are never edited, reordered or deduplicated: repeat mentions are distinct
// entries with their own timestamps.
type SymptomEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Turn      int       `json:"turn_number"`
	Symptom   Symptom   `json:"symptom"`
	Stage     Stage     `json:"conversation_stage"`
}

// ResponseEntry mirrors SymptomEntry for system responses.
type ResponseEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Turn      int       `json:"turn_number"`
	Response  string    `json:"response"`
	Stage     Stage     `json:"conversation_stage"`
}

// StageTransition is one recorded move of the dialogue state machine.
type StageTransition struct {
	From Stage `json:"from"`
	To   Stage `json:"to"`
	Turn int   `json:"turn"`
}

// Context is the aggregate root for one intake session. It is owned by the
// orchestrator processing that session and must not be shared across
// sessions. Histories are append-only; the stage field is written only
// through the StageController.
type Context struct {
	ID uuid.UUID `json:"id"`

	SymptomHistory    []SymptomEntry  `json:"symptom_history"`
	PreviousResponses []ResponseEntry `json:"previous_responses"`

	Demographics   map[string]string `json:"patient_demographics"`
	MedicalContext map[string]string `json:"medical_context"`

	Stage      Stage   `json:"conversation_stage"`
	TotalTurns int     `json:"total_turns"`
	Confidence float64 `json:"context_confidence_score"`

	Memory Memory `json:"conversation_memory"`

	SessionStart    time.Time `json:"session_start_time"`
	LastInteraction time.Time `json:"last_interaction_time"`
}

// New creates the context for a freshly opened session.
func New(id uuid.UUID) *Context {
	now := time.Now()
	return &Context{
		ID:              id,
		Demographics:    map[string]string{},
		MedicalContext:  map[string]string{},
		Stage:           StageGreeting,
		Confidence:      1.0,
		SessionStart:    now,
		LastInteraction: now,
	}
}
