package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askmynotes/backend/internal/core/domain"
)

const maxSubjectNameLen = 100

func (rt *Router) handleSubjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.createSubject(w, r)
	case http.MethodGet:
		rt.listSubjects(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) createSubject(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject name is required"})
		return
	}
	if len(name) > maxSubjectNameLen {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject name is too long"})
		return
	}

	count, err := rt.subjects.CountByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if count >= domain.MaxSubjectsPerUser {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "subject limit reached: delete an existing subject first",
		})
		return
	}

	subject := &domain.Subject{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := rt.subjects.Create(r.Context(), subject); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (rt *Router) listSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := rt.subjects.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if subjects == nil {
		subjects = []domain.Subject{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

// deleteSubject removes a subject and, through the schema's cascading
// deletes, all of its documents and chunks.
func (rt *Router) deleteSubject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/subjects/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject id is required"})
		return
	}

	if err := rt.subjects.Delete(r.Context(), userIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
