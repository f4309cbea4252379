package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/askmynotes/backend/internal/core/domain"
)

func (rt *Router) answerQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		SubjectID string `json:"subject_id"`
		Question  string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject_id is required"})
		return
	}

	start := time.Now()
	result, err := rt.answerer.Answer(r.Context(), userIDFromContext(r.Context()), req.SubjectID, req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordQARequest(rt.cfg.ServiceName, result.Status, string(result.Confidence), len(result.Snippets), time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) followUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		SubjectID string            `json:"subject_id"`
		Question  string            `json:"question"`
		History   []domain.ChatTurn `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject_id is required"})
		return
	}

	answer, err := rt.assistant.FollowUp(r.Context(), userIDFromContext(r.Context()), req.SubjectID, req.Question, req.History)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordFollowUp(rt.cfg.ServiceName, "ok")
	}
	writeJSON(w, http.StatusOK, answer)
}
