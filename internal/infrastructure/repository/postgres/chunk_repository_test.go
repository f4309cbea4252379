package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/askmynotes/backend/internal/core/domain"
)

func newChunkRepoWithMock(t *testing.T) (*ChunkRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return NewChunkRepository(db), mock, func() { _ = db.Close() }
}

func TestInsertChunksNoopOnEmptySlice(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	if err := repo.InsertChunks(context.Background(), nil); err != nil {
		t.Fatalf("InsertChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertChunksCommitsAllRowsInOneTx(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	chunks := []domain.StoredChunk{
		{ID: "c-1", UserID: "u-1", SubjectID: "s-1", DocumentID: "d-1",
			FileName: "notes.txt", PageRange: "1", ChunkIndex: 0,
			Content: "alpha", Embedding: []float32{0.5, -0.25}},
		{ID: "c-2", UserID: "u-1", SubjectID: "s-1", DocumentID: "d-1",
			FileName: "notes.txt", PageRange: "1", ChunkIndex: 1,
			Content: "beta", Embedding: []float32{1, 0}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO chunks").
		WithArgs("c-1", "u-1", "s-1", "d-1", "notes.txt", "1", 0, "alpha", "[0.5,-0.25]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO chunks").
		WithArgs("c-2", "u-1", "s-1", "d-1", "notes.txt", "1", 1, "beta", "[1,0]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.InsertChunks(context.Background(), chunks); err != nil {
		t.Fatalf("InsertChunks() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertChunksRollsBackOnInsertError(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO chunks").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.InsertChunks(context.Background(), []domain.StoredChunk{
		{ID: "c-1", Embedding: []float32{0}},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNearestNeighborsPassesVectorLiteralAndLimit(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "subject_id", "document_id", "file_name",
		"page_range", "chunk_index", "content", "similarity",
	}).AddRow("c-1", "u-1", "s-1", "d-1", "notes.pdf", "2-3", 4, "binary search trees", 0.82)

	mock.ExpectQuery("FROM chunks").
		WithArgs("u-1", "s-1", "[0.1,0.2]", 15).
		WillReturnRows(rows)

	matches, err := repo.NearestNeighbors(context.Background(), "u-1", "s-1", []float32{0.1, 0.2}, 15)
	if err != nil {
		t.Fatalf("NearestNeighbors() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Similarity != 0.82 {
		t.Fatalf("unexpected similarity: %v", matches[0].Similarity)
	}
	if matches[0].PageRange != "2-3" || matches[0].ChunkIndex != 4 {
		t.Fatalf("unexpected provenance: %+v", matches[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListChunksScopesToUserAndSubject(t *testing.T) {
	repo, mock, done := newChunkRepoWithMock(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "subject_id", "document_id", "file_name",
		"page_range", "chunk_index", "content",
	}).AddRow("c-1", "u-1", "s-1", "d-1", "notes.txt", "1", 0, "alpha")

	mock.ExpectQuery("FROM chunks").
		WithArgs("u-1", "s-1", 200).
		WillReturnRows(rows)

	chunks, err := repo.ListChunks(context.Background(), "u-1", "s-1", 200)
	if err != nil {
		t.Fatalf("ListChunks() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "alpha" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestVectorLiteralFormatsFloats(t *testing.T) {
	got := vectorLiteral([]float32{1, -0.5, 0.25})
	if got != "[1,-0.5,0.25]" {
		t.Fatalf("vectorLiteral() = %q", got)
	}
	if empty := vectorLiteral(nil); empty != "[]" {
		t.Fatalf("vectorLiteral(nil) = %q", empty)
	}
}
