package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/askmynotes/backend/internal/core/domain"
)

func newDocumentRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewDocumentRepository(db), mock, func() { _ = db.Close() }
}

func TestDocumentGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	mock.ExpectQuery("FROM documents").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentGetByIDMapsNullErrorMessage(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "subject_id", "file_name", "storage_path",
		"page_count", "chunk_count", "status", "error_message", "created_at", "updated_at",
	}).AddRow("d-1", "u-1", "s-1", "notes.pdf", "u-1/s-1/d-1_notes.pdf",
		3, 7, "ready", nil, time.Now(), time.Now())

	mock.ExpectQuery("FROM documents").
		WithArgs("d-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusReady {
		t.Fatalf("expected ready status, got %q", doc.Status)
	}
	if doc.Error != "" {
		t.Fatalf("expected empty error message, got %q", doc.Error)
	}
	if doc.PageCount != 3 || doc.ChunkCount != 7 {
		t.Fatalf("unexpected counts: %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentListBySubjectScopesToUser(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "subject_id", "file_name", "storage_path",
		"page_count", "chunk_count", "status", "error_message", "created_at", "updated_at",
	}).AddRow("d-1", "u-1", "s-1", "notes.txt", "u-1/s-1/d-1_notes.txt",
		1, 2, "uploaded", nil, time.Now(), time.Now())

	mock.ExpectQuery("FROM documents").
		WithArgs("u-1", "s-1").
		WillReturnRows(rows)

	docs, err := repo.ListBySubject(context.Background(), "u-1", "s-1")
	if err != nil {
		t.Fatalf("ListBySubject() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d-1" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentSaveCountsReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", 4, 12, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveCounts(context.Background(), "missing", 4, 12)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
