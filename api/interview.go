package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/interviewer/internal/interview"
)

type InterviewHandler struct {
	engine *interview.Engine
}

func NewInterviewHandler(engine *interview.Engine) *InterviewHandler {
	return &InterviewHandler{engine: engine}
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type startResponse struct {
	Question       string `json:"question"`
	QuestionNumber int    `json:"question_number"`
	Category       string `json:"category"`
	Topic          string `json:"topic"`
	IsFinished     bool   `json:"is_finished"`
}

type answerResponse struct {
	Analysis       string `json:"analysis"`
	Score          int    `json:"score"`
	NextQuestion   string `json:"next_question"`
	QuestionNumber int    `json:"question_number"`
	Category       string `json:"category"`
	Topic          string `json:"topic"`
	IsFinished     bool   `json:"is_finished"`
	EndReason      string `json:"end_reason,omitempty"`
}

type skipResponse struct {
	NextQuestion   string `json:"next_question"`
	QuestionNumber int    `json:"question_number"`
	Category       string `json:"category"`
	Topic          string `json:"topic"`
	IsFinished     bool   `json:"is_finished"`
	EndReason      string `json:"end_reason,omitempty"`
}

func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	turn, err := h.engine.Start(r.Context(), req.SessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, startResponse{
		Question:       turn.Question,
		QuestionNumber: turn.QuestionNumber,
		Category:       turn.Category,
		Topic:          turn.Topic,
	}, http.StatusOK)
}

func (h *InterviewHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	turn, err := h.engine.Answer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, answerResponse{
		Analysis:       turn.Analysis,
		Score:          turn.Score,
		NextQuestion:   turn.Question,
		QuestionNumber: turn.QuestionNumber,
		Category:       turn.Category,
		Topic:          turn.Topic,
		IsFinished:     turn.Finished,
		EndReason:      turn.EndReason,
	}, http.StatusOK)
}

func (h *InterviewHandler) Skip(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	turn, err := h.engine.Skip(r.Context(), req.SessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, skipResponse{
		NextQuestion:   turn.Question,
		QuestionNumber: turn.QuestionNumber,
		Category:       turn.Category,
		Topic:          turn.Topic,
		IsFinished:     turn.Finished,
		EndReason:      turn.EndReason,
	}, http.StatusOK)
}

func (h *InterviewHandler) End(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.engine.End(r.Context(), req.SessionID); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, map[string]string{
		"message":    "Interview ended",
		"session_id": req.SessionID,
	}, http.StatusOK)
}
