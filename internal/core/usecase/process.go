package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/askmynotes/backend/internal/core/domain"
	"github.com/askmynotes/backend/internal/core/ports"
)

// ProcessDocumentUseCase runs the ingestion pipeline for one uploaded
// document: extract page-tagged text, chunk it, embed every chunk and
// persist the chunk rows. It is the only writer of stored chunks.
type ProcessDocumentUseCase struct {
	docs      ports.DocumentRepository
	extractor ports.PageExtractor
	chunker   ports.PageChunker
	embedder  ports.Embedder
	store     ports.ChunkStore
}

func NewProcessDocumentUseCase(
	docs ports.DocumentRepository,
	extractor ports.PageExtractor,
	chunker ports.PageChunker,
	embedder ports.Embedder,
	store ports.ChunkStore,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		docs:      docs,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.docs.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	pageCount, chunkCount, err := uc.pipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.docs.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.docs.SaveCounts(ctx, documentID, pageCount, chunkCount); err != nil {
		return fmt.Errorf("save page/chunk counts: %w", err)
	}
	if err := uc.docs.UpdateStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) pipeline(ctx context.Context, documentID string) (pageCount, chunkCount int, err error) {
	doc, err := uc.docs.GetByID(ctx, documentID)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch document by id: %w", err)
	}

	pages, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return 0, 0, fmt.Errorf("extract pages: %w", err)
	}
	if len(pages) == 0 {
		return 0, 0, domain.WrapError(domain.ErrInvalidInput, "extract pages", errors.New("no extractable text"))
	}

	chunks := uc.chunker.ChunkPages(pages)
	if len(chunks) == 0 {
		return 0, 0, domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, 0, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}

	rows := make([]domain.StoredChunk, 0, len(chunks))
	for i, c := range chunks {
		rows = append(rows, domain.StoredChunk{
			ID:         uuid.NewString(),
			UserID:     doc.UserID,
			SubjectID:  doc.SubjectID,
			DocumentID: doc.ID,
			FileName:   doc.FileName,
			PageRange:  c.PageRange,
			ChunkIndex: c.Index,
			Content:    c.Content,
			Embedding:  vectors[i],
		})
	}
	if err := uc.store.InsertChunks(ctx, rows); err != nil {
		return 0, 0, fmt.Errorf("insert chunk rows: %w", err)
	}

	return len(pages), len(rows), nil
}
