package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askmynotes/backend/internal/core/domain"
	"github.com/askmynotes/backend/internal/core/ports"
)

type IngestDocumentUseCase struct {
	subjects ports.SubjectRepository
	docs     ports.DocumentRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
}

func NewIngestDocumentUseCase(
	subjects ports.SubjectRepository,
	docs ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		subjects: subjects,
		docs:     docs,
		storage:  storage,
		queue:    queue,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	userID, subjectID, fileName string,
	body io.Reader,
) (*domain.Document, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".txt":
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document",
			fmt.Errorf("unsupported file type: only PDF and TXT are allowed"))
	}

	if _, err := uc.subjects.GetByID(ctx, userID, subjectID); err != nil {
		return nil, fmt.Errorf("verify subject ownership: %w", err)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s/%s/%s_%s", userID, subjectID, id, sanitizeFilename(fileName))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:          id,
		UserID:      userID,
		SubjectID:   subjectID,
		FileName:    fileName,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." {
		return "document.bin"
	}
	return base
}
