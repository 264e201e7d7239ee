package conversation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	return New(uuid.New())
}

func TestNewContextDefaults(t *testing.T) {
	c := newTestContext(t)

	assert.Equal(t, StageGreeting, c.Stage)
	assert.Equal(t, 0, c.TotalTurns)
	assert.Equal(t, 1.0, c.Confidence)
	assert.Empty(t, c.SymptomHistory)
	assert.False(t, c.SessionStart.IsZero())
}

func TestIncrementTurnMonotonic(t *testing.T) {
	c := newTestContext(t)
	for i := 1; i <= 5; i++ {
		c.IncrementTurn()
		assert.Equal(t, i, c.TotalTurns)
	}
}

func TestSymptomHistoryAppendOnly(t *testing.T) {
	c := newTestContext(t)

	c.IncrementTurn()
	c.AddSymptom(Symptom{Name: "headache", Source: "user_message"})
	c.IncrementTurn()
	c.AddSymptom(Symptom{Name: "headache", Source: "user_message"})

	// Two distinct mentions stay two distinct entries.
	require.Len(t, c.SymptomHistory, 2)
	assert.Equal(t, 1, c.SymptomHistory[0].Turn)
	assert.Equal(t, 2, c.SymptomHistory[1].Turn)

	// The memory set deduplicates by name.
	assert.Equal(t, []string{"headache"}, c.Memory.SymptomsMentioned)

	// Earlier entries are untouched by later appends.
	firstTurn := c.SymptomHistory[0].Turn
	c.AddSymptom(Symptom{Name: "nausea", Source: "user_message"})
	assert.Equal(t, firstTurn, c.SymptomHistory[0].Turn)
	assert.Len(t, c.SymptomHistory, 3)
}

func TestResponsesStampedWithTurnAndStage(t *testing.T) {
	c := newTestContext(t)
	c.IncrementTurn()
	c.AddResponse("How long has this been going on?")

	require.Len(t, c.PreviousResponses, 1)
	assert.Equal(t, 1, c.PreviousResponses[0].Turn)
	assert.Equal(t, StageGreeting, c.PreviousResponses[0].Stage)
}

func TestDemographicsLastWriteWins(t *testing.T) {
	c := newTestContext(t)

	c.UpdateDemographics(map[string]string{"age": "34", "sex": "female"})
	c.UpdateDemographics(map[string]string{"age": "35"})

	assert.Equal(t, "35", c.Demographics["age"])
	assert.Equal(t, "female", c.Demographics["sex"])
}

func TestUpdateConfidenceClamps(t *testing.T) {
	c := newTestContext(t)

	c.UpdateConfidence(1.7)
	assert.Equal(t, 1.0, c.Confidence)
	c.UpdateConfidence(-0.3)
	assert.Equal(t, 0.0, c.Confidence)
	c.UpdateConfidence(0.42)
	assert.Equal(t, 0.42, c.Confidence)
}

func TestRecentEntriesOrderAndBounds(t *testing.T) {
	c := newTestContext(t)
	for i := 0; i < 5; i++ {
		c.IncrementTurn()
		c.AddSymptom(Symptom{Name: "fever", Source: "user_message"})
	}

	recent := c.RecentSymptoms(3)
	require.Len(t, recent, 3)
	assert.Equal(t, 3, recent[0].Turn)
	assert.Equal(t, 5, recent[2].Turn, "most recent last")

	assert.Len(t, c.RecentSymptoms(100), 5)
	assert.Nil(t, c.RecentSymptoms(0))
	assert.Nil(t, c.RecentResponses(4))
}

func TestLastInteractionUpdatedByMutations(t *testing.T) {
	c := newTestContext(t)
	before := c.LastInteraction

	time.Sleep(time.Millisecond)
	c.IncrementTurn()
	assert.True(t, c.LastInteraction.After(before))

	before = c.LastInteraction
	time.Sleep(time.Millisecond)
	c.UpdateMedicalContext(map[string]string{"allergies": "penicillin"})
	assert.True(t, c.LastInteraction.After(before))
}

func TestSnapshotIsolation(t *testing.T) {
	c := newTestContext(t)
	c.IncrementTurn()
	c.AddSymptom(Symptom{Name: "cough", Source: "user_message"})
	c.UpdateDemographics(map[string]string{"age": "40"})

	snap := c.Snapshot()
	snap.Demographics["age"] = "99"
	snap.RecentSymptoms[0].Symptom.Name = "tampered"
	snap.SymptomsMentioned[0] = "tampered"

	assert.Equal(t, "40", c.Demographics["age"])
	assert.Equal(t, "cough", c.SymptomHistory[0].Symptom.Name)
	assert.Equal(t, []string{"cough"}, c.Memory.SymptomsMentioned)
}

func TestSnapshotContents(t *testing.T) {
	c := newTestContext(t)
	c.IncrementTurn()
	c.AddSymptom(Symptom{Name: "fever", Source: "user_message"})
	c.Memory.MarkUrgency("high fever")

	snap := c.Snapshot()
	assert.Equal(t, c.ID.String(), snap.SessionID)
	assert.Equal(t, StageGreeting, snap.Stage)
	assert.Equal(t, 1, snap.TotalTurns)
	assert.Equal(t, []string{"fever"}, snap.SymptomsMentioned)
	assert.Equal(t, []string{"high fever"}, snap.UrgencyMarkers)
	assert.GreaterOrEqual(t, snap.SessionDuration, time.Duration(0))
}

func TestMemoryBucketSemantics(t *testing.T) {
	var m Memory

	m.MentionSymptom("headache")
	m.MentionSymptom("headache")
	m.MentionSymptom("nausea")
	assert.Equal(t, []string{"headache", "nausea"}, m.SymptomsMentioned)

	m.RaiseConcern("worried about meningitis")
	m.RaiseConcern("worried about meningitis")
	assert.Len(t, m.ConcernsRaised, 2, "concern log is append-only, not deduplicated")

	m.MentionSymptom("")
	assert.Len(t, m.SymptomsMentioned, 2, "empty names are not indexed")
}
