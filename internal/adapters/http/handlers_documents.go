package httpadapter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/askmynotes/backend/internal/core/domain"
)

func (rt *Router) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.uploadDocument(w, r)
	case http.MethodGet:
		rt.listDocuments(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(rt.cfg.MaxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file exceeds the 25MB upload limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	subjectID := strings.TrimSpace(r.FormValue("subject_id"))
	if subjectID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'subject_id' is required"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestor.Upload(
		r.Context(),
		userIDFromContext(r.Context()),
		subjectID,
		fileHeader.Filename,
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	subjectID := strings.TrimSpace(r.URL.Query().Get("subject_id"))
	if subjectID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'subject_id' is required"})
		return
	}

	docs, err := rt.documents.ListBySubject(r.Context(), userIDFromContext(r.Context()), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}
