package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/garnizeh/interviewer/internal/models"
	"github.com/garnizeh/interviewer/internal/oracle"
	"github.com/garnizeh/interviewer/internal/retrieval"
	"github.com/garnizeh/interviewer/internal/session"
)

// ResumeHandler ingests resume text: it creates the session, stores the
// document in the retrieval engine, and extracts a structured profile. Text
// extraction from uploaded files happens upstream; this endpoint receives
// plain text.
type ResumeHandler struct {
	sessions  *session.Store
	retrieval *retrieval.Engine
	oracle    *oracle.Gateway
}

func NewResumeHandler(sessions *session.Store, ret *retrieval.Engine, gw *oracle.Gateway) *ResumeHandler {
	return &ResumeHandler{sessions: sessions, retrieval: ret, oracle: gw}
}

type resumeRequest struct {
	Text string `json:"text"`
}

type resumeResponse struct {
	SessionID string         `json:"session_id"`
	Message   string         `json:"message"`
	Profile   models.Profile `json:"resume_data"`
}

func (h *ResumeHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	var req resumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// No meaningful session can proceed from an empty document.
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "Could not extract text from resume", http.StatusBadRequest)
		return
	}

	id := h.sessions.Create()
	h.retrieval.Ingest(id, req.Text, retrieval.DefaultChunkSize)

	profile, err := h.oracle.AnalyzeProfile(r.Context(), req.Text)
	if err != nil {
		logger.Warn("oracle unavailable for resume analysis, using fallback profile",
			slog.String("session_id", id), slog.Any("err", err))
		profile = oracle.FallbackProfile(req.Text)
	}

	if err := h.sessions.SetProfile(id, req.Text, profile); err != nil {
		http.Error(w, "Failed to store session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, resumeResponse{
		SessionID: id,
		Message:   "Resume analyzed successfully",
		Profile:   profile,
	}, http.StatusOK)
}
