package conversation

import "time"

// Snapshot is the read-only projection handed to the external response
// generator and to reporting surfaces. It carries copies only: holders can
// never reach back into live context internals.
type Snapshot struct {
	SessionID string `json:"session_id"`

	Stage      Stage   `json:"conversation_stage"`
	TotalTurns int     `json:"total_turns"`
	Confidence float64 `json:"context_confidence_score"`

	RecentSymptoms  []SymptomEntry  `json:"recent_symptoms,omitempty"`
	RecentResponses []ResponseEntry `json:"recent_responses,omitempty"`

	Demographics   map[string]string `json:"patient_demographics,omitempty"`
	MedicalContext map[string]string `json:"medical_context,omitempty"`

	KeyTopics         []string          `json:"key_topics_discussed,omitempty"`
	SymptomsMentioned []string          `json:"symptoms_mentioned,omitempty"`
	ConcernsRaised    []string          `json:"concerns_raised,omitempty"`
	UrgencyMarkers    []string          `json:"urgency_markers,omitempty"`
	StageTransitions  []StageTransition `json:"stage_transitions,omitempty"`

	SessionStart    time.Time     `json:"session_start_time"`
	LastInteraction time.Time     `json:"last_interaction_time"`
	SessionDuration time.Duration `json:"session_duration"`
}

// snapshotHistoryLimit bounds how much history a snapshot carries downstream.
// Full history stays in the context; generators only need the recent window.
const snapshotHistoryLimit = 10

// Snapshot assembles the projection for external consumption.
func (c *Context) Snapshot() Snapshot {
	mem := c.Memory.clone()
	return Snapshot{
		SessionID:         c.ID.String(),
		Stage:             c.Stage,
		TotalTurns:        c.TotalTurns,
		Confidence:        c.Confidence,
		RecentSymptoms:    c.RecentSymptoms(snapshotHistoryLimit),
		RecentResponses:   c.RecentResponses(snapshotHistoryLimit),
		Demographics:      copyMap(c.Demographics),
		MedicalContext:    copyMap(c.MedicalContext),
		KeyTopics:         mem.KeyTopics,
		SymptomsMentioned: mem.SymptomsMentioned,
		ConcernsRaised:    mem.ConcernsRaised,
		UrgencyMarkers:    mem.UrgencyMarkers,
		StageTransitions:  mem.StageTransitions,
		SessionStart:      c.SessionStart,
		LastInteraction:   c.LastInteraction,
		SessionDuration:   c.SessionDuration(),
	}
}
