// Package intake glues the turn pipeline together: normalization, symptom
// extraction, urgency scanning, context updates, stage control and the
// hand-off to the external response generator.
package intake

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"medical-intake-engine/internal/conversation"
	"medical-intake-engine/internal/extract"
	"medical-intake-engine/internal/generator"
	"medical-intake-engine/internal/normalize"
	"medical-intake-engine/internal/triage"
)

// ClinicianNotifier reaches on-call staff: an alert when a session escalates,
// and the intake summary document once the escalation is acknowledged.
// Delivery is best-effort and never fails the request.
type ClinicianNotifier interface {
	SendEscalationAlert(ctx context.Context, sessionID string, markers []string) error
	SendSummaryReport(ctx context.Context, snap conversation.Snapshot) error
}

// TurnResult is what the caller gets back for one processed message.
type TurnResult struct {
	NormalizedText string                 `json:"normalized_text"`
	Corrections    []normalize.Correction `json:"corrections,omitempty"`
	Confidence     float64                `json:"confidence"`
	Stage          conversation.Stage     `json:"new_stage"`
	Urgency        string                 `json:"urgency"`
	ResponseText   string                 `json:"response_text"`
	Context        conversation.Snapshot  `json:"context_snapshot"`
}

type Service interface {
	StartSession(ctx context.Context) (*conversation.Snapshot, error)
	ProcessTurn(ctx context.Context, sessionID uuid.UUID, rawText string) (*TurnResult, error)
	GetSummary(ctx context.Context, sessionID uuid.UUID) (*conversation.Snapshot, error)
	AcknowledgeEscalation(ctx context.Context, sessionID uuid.UUID) (*conversation.Snapshot, error)
}

type service struct {
	store    conversation.Store
	gen      generator.Generator
	stages   *conversation.StageController
	notifier ClinicianNotifier
	logger   *log.Logger
	fallback string

	locks sessionLocks
}

func NewService(store conversation.Store, gen generator.Generator, stages *conversation.StageController, notifier ClinicianNotifier, fallback string, logger *log.Logger) Service {
	if logger == nil {
		logger = log.Default()
	}
	return &service{
		store:    store,
		gen:      gen,
		stages:   stages,
		notifier: notifier,
		logger:   logger,
		fallback: fallback,
	}
}

func (s *service) StartSession(ctx context.Context) (*conversation.Snapshot, error) {
	c := conversation.New(uuid.New())
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	snap := c.Snapshot()
	return &snap, nil
}

func (s *service) GetSummary(ctx context.Context, sessionID uuid.UUID) (*conversation.Snapshot, error) {
	c, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := c.Snapshot()
	return &snap, nil
}

func (s *service) AcknowledgeEscalation(ctx context.Context, sessionID uuid.UUID) (*conversation.Snapshot, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.stages.ResolveEscalation(c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	snap := c.Snapshot()

	// The clinician took over: hand them the intake summary document.
	if s.notifier != nil {
		if err := s.notifier.SendSummaryReport(ctx, snap); err != nil {
			s.logger.Printf("intake: summary report failed for session %s: %v", c.ID, err)
		}
	}
	return &snap, nil
}

// ProcessTurn runs the full pipeline for one user message. Turns of the same
// session serialize on a per-session lock; distinct sessions run in parallel.
//
// State captured from the patient (turn count, symptoms, urgency, stage up to
// risk assessment) commits before the generation call and survives its
// failure. The response is recorded only after a successful generation.
func (s *service) ProcessTurn(ctx context.Context, sessionID uuid.UUID, rawText string) (*TurnResult, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	norm := normalize.Normalize(rawText)
	candidates := extract.Extract(norm.NormalizedText)
	urgency := triage.Scan(norm.NormalizedText, candidates)

	c.IncrementTurn()
	for _, cand := range candidates {
		c.AddSymptom(conversation.Symptom{
			Name:   cand.Name,
			Detail: cand.Excerpt,
			Source: string(cand.Source),
		})
		c.Memory.DiscussTopic(cand.Name)
	}
	s.indexUtterance(c, rawText, norm)

	if urgency == triage.Emergency {
		s.escalate(ctx, c, norm.NormalizedText, candidates)
	} else {
		s.stages.Advance(c, urgency)
	}

	c.UpdateConfidence(blend(c.Confidence, norm.Confidence))

	// Commit what the patient said before the only suspension point. Turn
	// counting and symptom capture must not be lost if generation fails.
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}

	genRes, genErr := s.gen.Generate(ctx, c.Snapshot(), norm.NormalizedText)
	if genErr != nil {
		s.logger.Printf("intake: generation failed for session %s turn %d: %v", sessionID, c.TotalTurns, genErr)
		return s.turnResult(norm, urgency, s.fallback, c), nil
	}

	// Urgency hints are advisory: they can raise attention to urgent but
	// never force escalation by themselves. Stage hints are a single vote
	// that the controller may reject.
	hint := triage.ParseLevel(genRes.UrgencyHint)
	if hint > triage.Urgent {
		hint = triage.Urgent
	}
	urgency = triage.Merge(urgency, hint)
	if genRes.StageHint != "" {
		s.stages.ApplyHint(c, genRes.StageHint)
	}

	for _, cand := range extract.FromAnalysis(genRes.DifferentialDiagnoses) {
		c.AddSymptom(conversation.Symptom{
			Name:   cand.Name,
			Source: string(cand.Source),
		})
	}

	c.AddResponse(genRes.ResponseText)
	c.UpdateConfidence(blend(c.Confidence, genRes.Confidence))

	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.turnResult(norm, urgency, genRes.ResponseText, c), nil
}

func (s *service) turnResult(norm normalize.Result, urgency triage.Level, response string, c *conversation.Context) *TurnResult {
	return &TurnResult{
		NormalizedText: norm.NormalizedText,
		Corrections:    norm.Corrections,
		Confidence:     norm.Confidence,
		Stage:          c.Stage,
		Urgency:        urgency.String(),
		ResponseText:   response,
		Context:        c.Snapshot(),
	}
}

func (s *service) escalate(ctx context.Context, c *conversation.Context, normalized string, candidates []extract.Candidate) {
	markers := triage.Markers(normalized, candidates, triage.Emergency)
	for _, m := range markers {
		c.Memory.MarkUrgency(m)
	}
	if !s.stages.Escalate(c) {
		return
	}
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendEscalationAlert(ctx, c.ID.String(), markers); err != nil {
		s.logger.Printf("intake: escalation alert failed for session %s: %v", c.ID, err)
	}
}

// indexUtterance folds conversational signals into memory: patient questions,
// concern and emotion wording, and the medical terms the normalizer guarded.
func (s *service) indexUtterance(c *conversation.Context, rawText string, norm normalize.Result) {
	if strings.Contains(rawText, "?") {
		c.Memory.AskQuestion(strings.TrimSpace(rawText))
	}
	lower := strings.ToLower(norm.NormalizedText)
	for _, word := range []string{"worried", "scared", "afraid", "anxious", "nervous", "panicking"} {
		if strings.Contains(lower, word) {
			c.Memory.NoteEmotion(word)
			c.Memory.RaiseConcern(norm.NormalizedText)
			break
		}
	}
	for _, term := range norm.PreservedEntities {
		c.Memory.UseMedicalTerm(term)
	}
}

// blend folds a new confidence signal into the running score, weighting the
// accumulated history over any single turn.
func blend(current, incoming float64) float64 {
	return 0.7*current + 0.3*incoming
}

// sessionLocks serializes turn processing per session id. Entries are
// reference counted and evicted once the last holder releases them, so the
// map stays bounded by concurrently active sessions, not by every session the
// process has ever seen.
type sessionLocks struct {
	mu sync.Mutex
	m  map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[uuid.UUID]*sessionLock)
	}
	entry, ok := l.m[id]
	if !ok {
		entry = &sessionLock{}
		l.m[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
