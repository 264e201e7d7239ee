package intake

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medical-intake-engine/internal/conversation"
)

// ReportRenderer renders a session snapshot as a PDF document.
type ReportRenderer interface {
	Render(snap conversation.Snapshot) ([]byte, error)
}

type Handler struct {
	svc     Service
	reports ReportRenderer
}

func NewHandler(svc Service, reports ReportRenderer) *Handler {
	return &Handler{svc: svc, reports: reports}
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.StartSession(r.Context())
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"session_id": snap.SessionID,
		"context":    snap,
	})
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.svc.ProcessTurn(r.Context(), id, req.Text)
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			http.Error(w, "Unknown session", http.StatusNotFound)
			return
		}
		http.Error(w, "Processing failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.GetSummary(r.Context(), id)
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			http.Error(w, "Unknown session", http.StatusNotFound)
			return
		}
		http.Error(w, "Summary failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, snap)
}

func (h *Handler) HandleEscalationAck(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.AcknowledgeEscalation(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrSessionNotFound):
			http.Error(w, "Unknown session", http.StatusNotFound)
		case errors.Is(err, conversation.ErrIllegalTransition):
			http.Error(w, "Session is not escalated", http.StatusConflict)
		default:
			http.Error(w, "Acknowledgment failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, snap)
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.GetSummary(r.Context(), id)
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			http.Error(w, "Unknown session", http.StatusNotFound)
			return
		}
		http.Error(w, "Summary failed", http.StatusInternalServerError)
		return
	}

	pdfData, err := h.reports.Render(*snap)
	if err != nil {
		http.Error(w, "Report rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Write(pdfData)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/session", h.CreateSession)
	r.Post("/session/{id}/message", h.HandleMessage)
	r.Post("/session/{id}/escalation/ack", h.HandleEscalationAck)
	r.Get("/session/{id}/summary", h.HandleSummary)
	r.Get("/session/{id}/report", h.HandleReport)
}
