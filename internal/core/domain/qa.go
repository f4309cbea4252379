package domain

// Confidence is a discrete bucket summarizing how well the best
// retrieved chunk supports an answer.
type Confidence string

const (
	ConfidenceHigh     Confidence = "High"
	ConfidenceMedium   Confidence = "Medium"
	ConfidenceLow      Confidence = "Low"
	ConfidenceNotFound Confidence = "NotFound"
)

// Evidence is a single sentence lifted verbatim from a retrieved chunk
// and scored against the question by lexical overlap. Evidences live
// only for the duration of one QA request.
type Evidence struct {
	Text       string
	FileName   string
	PageRange  string
	ChunkID    string
	Similarity float64
	Score      int
}

// Snippet is one verbatim sentence in a QA answer with its provenance.
type Snippet struct {
	Text       string  `json:"text"`
	FileName   string  `json:"file_name"`
	PageRange  string  `json:"page_range"`
	ChunkID    string  `json:"chunk_id"`
	Similarity float64 `json:"similarity"`
}

const (
	QAStatusOK       = "ok"
	QAStatusNotFound = "not_found"
)

// QAResult is the outcome of one question. Snippets are copied
// character-for-character from stored chunk content so the user can
// always trace an answer back to their own notes.
type QAResult struct {
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	Confidence Confidence `json:"confidence,omitempty"`
	Snippets   []Snippet  `json:"snippets,omitempty"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type FollowUpAnswer struct {
	Answer string `json:"answer"`
}
