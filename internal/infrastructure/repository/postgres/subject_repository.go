package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/askmynotes/backend/internal/core/domain"
)

type SubjectRepository struct {
	db *sql.DB
}

func NewSubjectRepository(db *sql.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO subjects (id, user_id, name, created_at) VALUES ($1,$2,$3,$4)
`, subject.ID, subject.UserID, subject.Name, subject.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// GetByID filters by user id as well, so a subject owned by someone
// else looks exactly like a missing one.
func (r *SubjectRepository) GetByID(ctx context.Context, userID, subjectID string) (*domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, created_at FROM subjects WHERE id = $1 AND user_id = $2
`, subjectID, userID)

	var subject domain.Subject
	err := row.Scan(&subject.ID, &subject.UserID, &subject.Name, &subject.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrSubjectNotFound, "get subject", err)
		}
		return nil, fmt.Errorf("scan subject: %w", err)
	}
	return &subject, nil
}

func (r *SubjectRepository) List(ctx context.Context, userID string) ([]domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, created_at FROM subjects WHERE user_id = $1 ORDER BY created_at ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]domain.Subject, 0)
	for rows.Next() {
		var subject domain.Subject
		if err := rows.Scan(&subject.ID, &subject.UserID, &subject.Name, &subject.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subject row: %w", err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subject rows: %w", err)
	}
	return subjects, nil
}

func (r *SubjectRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM subjects WHERE user_id = $1
`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return count, nil
}

// Delete removes the subject; documents and chunks go with it via
// ON DELETE CASCADE.
func (r *SubjectRepository) Delete(ctx context.Context, userID, subjectID string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM subjects WHERE id = $1 AND user_id = $2
`, subjectID, userID)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subject rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrSubjectNotFound, "delete subject", sql.ErrNoRows)
	}
	return nil
}
