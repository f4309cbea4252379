package ports

import (
	"context"
	"io"

	"github.com/askmynotes/backend/internal/core/domain"
)

// SubjectRepository persists subjects with row-level ownership.
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) error
	GetByID(ctx context.Context, userID, subjectID string) (*domain.Subject, error)
	List(ctx context.Context, userID string) ([]domain.Subject, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, subjectID string) error
}

// DocumentRepository persists uploaded document metadata and state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListBySubject(ctx context.Context, userID, subjectID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveCounts(ctx context.Context, id string, pageCount, chunkCount int) error
}

// ChunkStore persists embedded chunk rows and serves the two read paths
// the core needs: nearest-neighbor search for QA/follow-up and plain
// listing in storage order for study-mode coverage. Both reads filter
// by user and subject server-side.
type ChunkStore interface {
	InsertChunks(ctx context.Context, chunks []domain.StoredChunk) error
	NearestNeighbors(ctx context.Context, userID, subjectID string, queryVector []float32, k int) ([]domain.RetrievalMatch, error)
	ListChunks(ctx context.Context, userID, subjectID string, limit int) ([]domain.StoredChunk, error)
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes document upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// PageExtractor extracts page-tagged plain text from a stored document.
type PageExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) ([]domain.Page, error)
}

// PageChunker splits page-tagged text into overlapping word windows.
type PageChunker interface {
	ChunkPages(pages []domain.Page) []domain.Chunk
}

// Embedder maps text to fixed-dimension vectors. Empty or
// whitespace-only input is an explicit error, never a zero vector.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TextGenerator is the untrusted generative model. Whatever it returns
// must be validated by the caller.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TokenVerifier resolves a bearer token to a stable user id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}
