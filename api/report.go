package api

import (
	"net/http"

	"github.com/garnizeh/interviewer/internal/report"
	"github.com/garnizeh/interviewer/internal/session"
	"github.com/gorilla/mux"
)

type ReportHandler struct {
	sessions *session.Store
	reports  *report.Generator
}

func NewReportHandler(sessions *session.Store, reports *report.Generator) *ReportHandler {
	return &ReportHandler{sessions: sessions, reports: reports}
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["sessionId"]
	if id == "" {
		http.Error(w, "sessionId required", http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Get(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, h.reports.Build(r.Context(), sess), http.StatusOK)
}
