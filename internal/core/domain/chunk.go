package domain

// Chunk is the ephemeral output of the page chunker: a fixed-size,
// overlapping word window over one page-run. Index restarts at 0 for
// every page; chunks concatenate in page order across the document.
type Chunk struct {
	Index     int
	Content   string
	PageRange string
}

// StoredChunk is a persisted chunk row. Every stored chunk belongs to
// exactly one user and one subject; every read must filter by both.
type StoredChunk struct {
	ID         string
	UserID     string
	SubjectID  string
	DocumentID string
	FileName   string
	PageRange  string
	ChunkIndex int
	Content    string
	Embedding  []float32
}

// RetrievalMatch is a stored chunk plus its cosine similarity against
// the query vector. Higher similarity means more similar; the search
// side guarantees top-K ordering and nothing more.
type RetrievalMatch struct {
	StoredChunk
	Similarity float64
}
