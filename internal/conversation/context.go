package conversation

import "time"

// AddSymptom appends a disclosure entry stamped with the current turn and
// stage, and indexes the name into memory.
func (c *Context) AddSymptom(s Symptom) {
	c.SymptomHistory = append(c.SymptomHistory, SymptomEntry{
		Timestamp: time.Now(),
		Turn:      c.TotalTurns,
		Symptom:   s,
		Stage:     c.Stage,
	})
	c.Memory.MentionSymptom(s.Name)
	c.touch()
}

// AddResponse appends a response entry stamped with the current turn and
// stage. Callers invoke this only after a successful generation.
func (c *Context) AddResponse(text string) {
	c.PreviousResponses = append(c.PreviousResponses, ResponseEntry{
		Timestamp: time.Now(),
		Turn:      c.TotalTurns,
		Response:  text,
		Stage:     c.Stage,
	})
	c.touch()
}

// UpdateDemographics shallow-merges the partial map, last write wins per key.
func (c *Context) UpdateDemographics(partial map[string]string) {
	if c.Demographics == nil {
		c.Demographics = map[string]string{}
	}
	for k, v := range partial {
		c.Demographics[k] = v
	}
	c.touch()
}

// UpdateMedicalContext shallow-merges the partial map, last write wins per key.
func (c *Context) UpdateMedicalContext(partial map[string]string) {
	if c.MedicalContext == nil {
		c.MedicalContext = map[string]string{}
	}
	for k, v := range partial {
		c.MedicalContext[k] = v
	}
	c.touch()
}

// advanceStage records the transition and moves the stage. It is a pure
// recorder: legality is the StageController's job, and the controller is the
// only caller.
func (c *Context) advanceStage(to Stage) {
	c.Memory.recordTransition(StageTransition{From: c.Stage, To: to, Turn: c.TotalTurns})
	c.Stage = to
	c.touch()
}

// IncrementTurn advances the monotonic turn counter. Exactly one call per
// processed user message; idempotency is the caller's responsibility.
func (c *Context) IncrementTurn() {
	c.TotalTurns++
	c.touch()
}

// RecentSymptoms returns the last limit entries in original order,
// most-recent last. The returned slice is a copy.
func (c *Context) RecentSymptoms(limit int) []SymptomEntry {
	return tail(c.SymptomHistory, limit)
}

// RecentResponses returns the last limit entries in original order.
func (c *Context) RecentResponses(limit int) []ResponseEntry {
	return tail(c.PreviousResponses, limit)
}

// UpdateConfidence stores the score, clamped to [0,1].
func (c *Context) UpdateConfidence(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.Confidence = v
	c.touch()
}

// SessionDuration is the elapsed time since the session opened.
func (c *Context) SessionDuration() time.Duration {
	return time.Since(c.SessionStart)
}

func (c *Context) touch() {
	c.LastInteraction = time.Now()
}

// Clone deep-copies the context. Stores hand out clones so callers never
// alias persisted state.
func (c *Context) Clone() *Context {
	cp := *c
	cp.SymptomHistory = append([]SymptomEntry(nil), c.SymptomHistory...)
	cp.PreviousResponses = append([]ResponseEntry(nil), c.PreviousResponses...)
	cp.Demographics = copyMap(c.Demographics)
	cp.MedicalContext = copyMap(c.MedicalContext)
	cp.Memory = c.Memory.clone()
	return &cp
}

func tail[T any](entries []T, limit int) []T {
	if limit <= 0 || len(entries) == 0 {
		return nil
	}
	if limit > len(entries) {
		limit = len(entries)
	}
	return append([]T(nil), entries[len(entries)-limit:]...)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
