package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	UserID      string         `json:"-"`
	SubjectID   string         `json:"subject_id"`
	FileName    string         `json:"file_name"`
	StoragePath string         `json:"-"`
	PageCount   int            `json:"page_count"`
	ChunkCount  int            `json:"chunk_count"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Page is one page-run of extracted document text. TXT files produce a
// single page 1; PDF page attribution is a best-effort heuristic.
type Page struct {
	Number int
	Text   string
}
