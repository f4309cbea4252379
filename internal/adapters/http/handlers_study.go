package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type studyRequest struct {
	SubjectID string `json:"subject_id"`
}

func decodeStudyRequest(w http.ResponseWriter, r *http.Request) (studyRequest, bool) {
	var req studyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return studyRequest{}, false
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject_id is required"})
		return studyRequest{}, false
	}
	return req, true
}

func (rt *Router) generateMCQs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeStudyRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := rt.study.GenerateMCQs(r.Context(), userIDFromContext(r.Context()), req.SubjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordStudyRequest(rt.cfg.ServiceName, "mcq", result.Status, time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) generateShortAnswers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	req, ok := decodeStudyRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := rt.study.GenerateShortAnswers(r.Context(), userIDFromContext(r.Context()), req.SubjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordStudyRequest(rt.cfg.ServiceName, "short", result.Status, time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}
