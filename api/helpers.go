package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/garnizeh/interviewer/internal/interview"
	"github.com/garnizeh/interviewer/internal/session"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeEngineError maps the interview error taxonomy onto HTTP statuses.
// Oracle failures never reach here; they are absorbed by the fallback.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, interview.ErrAlreadyStarted):
		http.Error(w, "Interview already started", http.StatusBadRequest)
	case errors.Is(err, interview.ErrNotStarted):
		http.Error(w, "Interview not started", http.StatusBadRequest)
	case errors.Is(err, interview.ErrFinished):
		http.Error(w, "Interview already finished", http.StatusBadRequest)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
