// Package generator defines the boundary to the external response-generation
// collaborator. The engine hands over a read-only context snapshot plus the
// normalized utterance and treats the reply as opaque advice: stage and
// urgency hints are votes, never overrides.
package generator

import (
	"context"

	"medical-intake-engine/internal/conversation"
)

// Result is the collaborator's reply for one turn.
type Result struct {
	ResponseText          string             `json:"response_text"`
	StageHint             conversation.Stage `json:"stage_hint,omitempty"`
	UrgencyHint           string             `json:"urgency_hint,omitempty"`
	Confidence            float64            `json:"confidence"`
	DifferentialDiagnoses []string           `json:"differential_diagnoses,omitempty"`
}

// Generator produces the patient-facing response for a turn.
type Generator interface {
	Generate(ctx context.Context, snap conversation.Snapshot, utterance string) (*Result, error)
}
