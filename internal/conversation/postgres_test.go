package conversation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The Postgres store persists histories, maps and memory as JSON columns. The
// encode/decode halves carry the lossless round-trip guarantee and run here
// without a live database.
func TestSessionColumnsRoundTrip(t *testing.T) {
	c := New(uuid.New())
	c.IncrementTurn()
	c.AddSymptom(Symptom{Name: "fever", Detail: "for 2 days", Source: "user_message"})
	c.AddSymptom(Symptom{Name: "migraine", Source: "ai_analysis"})
	c.AddResponse("How high is the fever?")
	c.UpdateDemographics(map[string]string{"age": "34"})
	c.UpdateMedicalContext(map[string]string{"allergies": "penicillin"})
	c.Memory.RaiseConcern("I have been having a fever for 2 days")
	c.Memory.AskQuestion("is this serious?")
	c.Memory.NoteEmotion("worried")
	c.Memory.MarkUrgency("high fever")
	c.Memory.UseMedicalTerm("fever")
	c.advanceStage(StageHistoryTaking)
	c.UpdateConfidence(0.85)

	cols, err := encodeSessionColumns(c)
	require.NoError(t, err)

	restored := &Context{
		ID:         c.ID,
		Stage:      c.Stage,
		TotalTurns: c.TotalTurns,
		Confidence: c.Confidence,
	}
	require.NoError(t, decodeSessionColumns(restored, cols))

	require.Len(t, restored.SymptomHistory, len(c.SymptomHistory))
	for i, want := range c.SymptomHistory {
		got := restored.SymptomHistory[i]
		assert.Equal(t, want.Symptom, got.Symptom)
		assert.Equal(t, want.Turn, got.Turn)
		assert.Equal(t, want.Stage, got.Stage)
		assert.True(t, want.Timestamp.Equal(got.Timestamp))
	}

	require.Len(t, restored.PreviousResponses, len(c.PreviousResponses))
	for i, want := range c.PreviousResponses {
		got := restored.PreviousResponses[i]
		assert.Equal(t, want.Response, got.Response)
		assert.Equal(t, want.Turn, got.Turn)
		assert.Equal(t, want.Stage, got.Stage)
		assert.True(t, want.Timestamp.Equal(got.Timestamp))
	}

	assert.Equal(t, c.Demographics, restored.Demographics)
	assert.Equal(t, c.MedicalContext, restored.MedicalContext)
	assert.Equal(t, c.Memory, restored.Memory)
}

func TestDecodeSessionColumnsToleratesEmptyColumns(t *testing.T) {
	restored := &Context{}
	require.NoError(t, decodeSessionColumns(restored, sessionColumns{}))

	assert.NotNil(t, restored.Demographics)
	assert.NotNil(t, restored.MedicalContext)
	assert.Empty(t, restored.SymptomHistory)
	assert.Empty(t, restored.PreviousResponses)
}

func TestDecodeSessionColumnsRejectsCorruptJSON(t *testing.T) {
	restored := &Context{}
	err := decodeSessionColumns(restored, sessionColumns{symptoms: []byte("{not json")})
	assert.Error(t, err)
}
