package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askmynotes/backend/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, user_id, subject_id, file_name, storage_path, page_count, chunk_count, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		doc.ID, doc.UserID, doc.SubjectID, doc.FileName, doc.StoragePath,
		doc.PageCount, doc.ChunkCount, string(doc.Status), doc.Error, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, subject_id, file_name, storage_path, page_count, chunk_count, status, error_message, created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var status string
	var errMessage sql.NullString

	err := row.Scan(
		&doc.ID, &doc.UserID, &doc.SubjectID, &doc.FileName, &doc.StoragePath,
		&doc.PageCount, &doc.ChunkCount, &status, &errMessage, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", err)
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)
	doc.Error = errMessage.String
	return &doc, nil
}

func (r *DocumentRepository) ListBySubject(ctx context.Context, userID, subjectID string) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, subject_id, file_name, storage_path, page_count, chunk_count, status, error_message, created_at, updated_at
FROM documents
WHERE user_id = $1 AND subject_id = $2
ORDER BY created_at DESC
`, userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var doc domain.Document
		var status string
		var errMessage sql.NullString
		if err := rows.Scan(
			&doc.ID, &doc.UserID, &doc.SubjectID, &doc.FileName, &doc.StoragePath,
			&doc.PageCount, &doc.ChunkCount, &status, &errMessage, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		doc.Status = domain.DocumentStatus(status)
		doc.Error = errMessage.String
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document status", sql.ErrNoRows)
	}
	return nil
}

func (r *DocumentRepository) SaveCounts(ctx context.Context, id string, pageCount, chunkCount int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET page_count = $2, chunk_count = $3, updated_at = $4
WHERE id = $1
`, id, pageCount, chunkCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save document counts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save counts rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "save document counts", sql.ErrNoRows)
	}
	return nil
}
