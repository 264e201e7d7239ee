package intake

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medical-intake-engine/internal/conversation"
)

type stubRenderer struct{}

func (stubRenderer) Render(_ conversation.Snapshot) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	store := conversation.NewInMemoryStore()
	stages := conversation.NewStageController(logger)
	svc := NewService(store, &scriptedGenerator{}, stages, nil, "fallback", logger)

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(svc, stubRenderer{}))
	return r
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.SessionID)
	return body.SessionID
}

func TestHandlerTurnFlow(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/message",
		strings.NewReader(`{"text":"i having fever 2 days"}`))
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "I have been having a fever for 2 days", result.NormalizedText)
	assert.NotEmpty(t, result.Corrections)
	assert.Equal(t, "Tell me more.", result.ResponseText)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+id+"/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap conversation.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.TotalTurns)
	assert.Contains(t, snap.SymptomsMentioned, "fever")
}

func TestHandlerUnknownSession(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/2f7a9f4e-54be-4fd2-97d5-8c6a9a1f0001/message",
		strings.NewReader(`{"text":"hello"}`))
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/not-a-uuid/summary", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerEscalationAck(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	// Not escalated yet.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/"+id+"/escalation/ack", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/"+id+"/message",
		strings.NewReader(`{"text":"severe chest pain"}`))
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/"+id+"/escalation/ack", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap conversation.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, conversation.StageClosure, snap.Stage)
}

func TestHandlerReport(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+id+"/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}
