package conversation

import (
	"errors"
	"log"

	"medical-intake-engine/internal/triage"
)

// ErrIllegalTransition marks an attempted stage move outside the allowed edge
// set. It is recoverable: the stage is retained and the turn continues.
var ErrIllegalTransition = errors.New("illegal stage transition")

// StageController is the sole authority over conversation stage. Everything
// else, including advisory hints from the external generator, is a vote it
// may reject.
type StageController struct {
	logger *log.Logger
}

func NewStageController(logger *log.Logger) *StageController {
	if logger == nil {
		logger = log.Default()
	}
	return &StageController{logger: logger}
}

// canTransition implements the fixed edge set: forward-only along the main
// sequence, any non-closure stage into emergency escalation, and escalation
// into closure once acknowledged.
func canTransition(from, to Stage) bool {
	if from == to || !to.Valid() {
		return false
	}
	if to == StageEmergencyEscalation {
		return from != StageClosure && from != StageEmergencyEscalation
	}
	if from == StageEmergencyEscalation {
		return to == StageClosure
	}
	return stageOrder[to] > stageOrder[from]
}

// Transition attempts the move. An illegal transition is logged and rejected
// as a no-op with the current stage retained.
func (sc *StageController) Transition(c *Context, to Stage) error {
	if !canTransition(c.Stage, to) {
		if c.Stage != to {
			sc.logger.Printf("stage: rejected transition %s -> %s (session %s, turn %d)", c.Stage, to, c.ID, c.TotalTurns)
			return ErrIllegalTransition
		}
		return nil
	}
	c.advanceStage(to)
	return nil
}

// Escalate forces the absorbing emergency stage. Returns false when the
// session is already escalated or closed.
func (sc *StageController) Escalate(c *Context) bool {
	if c.Stage == StageEmergencyEscalation {
		return false
	}
	return sc.Transition(c, StageEmergencyEscalation) == nil
}

// ResolveEscalation moves an escalated session to closure once the
// acknowledgment is recorded.
func (sc *StageController) ResolveEscalation(c *Context) error {
	if c.Stage != StageEmergencyEscalation {
		return ErrIllegalTransition
	}
	return sc.Transition(c, StageClosure)
}

// Advance applies the progression heuristic before the generation call. It
// never proposes recommendation or closure: those depths are reached only on
// the back of a successful generation (see ApplyHint). Returns the stage in
// effect afterwards.
func (sc *StageController) Advance(c *Context, urgency triage.Level) Stage {
	next := c.Stage
	switch c.Stage {
	case StageGreeting:
		if c.TotalTurns >= 1 {
			next = StageHistoryTaking
		}
	case StageHistoryTaking:
		if len(c.SymptomHistory) >= 2 || c.TotalTurns >= 4 {
			next = StageSymptomClarification
		}
	case StageSymptomClarification:
		if urgency >= triage.Urgent || c.TotalTurns >= 6 {
			next = StageRiskAssessment
		}
	}
	if next != c.Stage {
		_ = sc.Transition(c, next)
	}
	return c.Stage
}

// ApplyHint considers the generator's advisory stage hint: a single vote,
// accepted only for the immediate next stage in the main sequence. Hints
// toward escalation are ignored; urgency detection owns that edge.
func (sc *StageController) ApplyHint(c *Context, hint Stage) Stage {
	if hint == "" || hint == c.Stage {
		return c.Stage
	}
	if !hint.Valid() || hint == StageEmergencyEscalation || c.Stage == StageEmergencyEscalation {
		sc.logger.Printf("stage: ignored hint %q at stage %s (session %s)", hint, c.Stage, c.ID)
		return c.Stage
	}
	if stageOrder[hint] != stageOrder[c.Stage]+1 {
		sc.logger.Printf("stage: ignored non-adjacent hint %q at stage %s (session %s)", hint, c.Stage, c.ID)
		return c.Stage
	}
	_ = sc.Transition(c, hint)
	return c.Stage
}
