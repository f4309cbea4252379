package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/askmynotes/backend/internal/core/domain"
)

// ChunkRepository persists embedded chunk rows and serves both read
// paths of the core: pgvector nearest-neighbor search (cosine) and
// plain listing in storage order. Every read filters by user id and
// subject id in SQL, never in application code.
type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) InsertChunks(ctx context.Context, chunks []domain.StoredChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, c := range chunks {
		_, err := tx.ExecContext(ctx, `
INSERT INTO chunks (
	id, user_id, subject_id, document_id, file_name, page_range, chunk_index, content, embedding, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::vector,$10)
`,
			c.ID, c.UserID, c.SubjectID, c.DocumentID, c.FileName,
			c.PageRange, c.ChunkIndex, c.Content, vectorLiteral(c.Embedding), now,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunk tx: %w", err)
	}
	return nil
}

// NearestNeighbors returns the top-k chunks by cosine similarity.
// pgvector's <=> operator is cosine distance, so similarity is
// 1 - distance and higher means more similar.
func (r *ChunkRepository) NearestNeighbors(ctx context.Context, userID, subjectID string, queryVector []float32, k int) ([]domain.RetrievalMatch, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, subject_id, document_id, file_name, page_range, chunk_index, content,
       1 - (embedding <=> $3::vector) AS similarity
FROM chunks
WHERE user_id = $1 AND subject_id = $2
ORDER BY embedding <=> $3::vector
LIMIT $4
`, userID, subjectID, vectorLiteral(queryVector), k)
	if err != nil {
		return nil, fmt.Errorf("query nearest neighbors: %w", err)
	}
	defer rows.Close()

	matches := make([]domain.RetrievalMatch, 0, k)
	for rows.Next() {
		var m domain.RetrievalMatch
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.SubjectID, &m.DocumentID, &m.FileName,
			&m.PageRange, &m.ChunkIndex, &m.Content, &m.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}
	return matches, nil
}

func (r *ChunkRepository) ListChunks(ctx context.Context, userID, subjectID string, limit int) ([]domain.StoredChunk, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, subject_id, document_id, file_name, page_range, chunk_index, content
FROM chunks
WHERE user_id = $1 AND subject_id = $2
ORDER BY created_at ASC, chunk_index ASC
LIMIT $3
`, userID, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	chunks := make([]domain.StoredChunk, 0)
	for rows.Next() {
		var c domain.StoredChunk
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.SubjectID, &c.DocumentID, &c.FileName,
			&c.PageRange, &c.ChunkIndex, &c.Content,
		); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w", err)
	}
	return chunks, nil
}

// vectorLiteral renders a float32 slice in pgvector's input syntax.
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
