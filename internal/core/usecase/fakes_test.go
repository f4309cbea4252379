package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/askmynotes/backend/internal/core/domain"
)

type fakeSubjects struct {
	subjects map[string]*domain.Subject
}

func newFakeSubjects(subjects ...*domain.Subject) *fakeSubjects {
	m := make(map[string]*domain.Subject, len(subjects))
	for _, s := range subjects {
		m[s.ID] = s
	}
	return &fakeSubjects{subjects: m}
}

func (f *fakeSubjects) Create(_ context.Context, subject *domain.Subject) error {
	f.subjects[subject.ID] = subject
	return nil
}

func (f *fakeSubjects) GetByID(_ context.Context, userID, subjectID string) (*domain.Subject, error) {
	subject, ok := f.subjects[subjectID]
	if !ok || subject.UserID != userID {
		return nil, domain.WrapError(domain.ErrSubjectNotFound, "get subject", fmt.Errorf("id %s", subjectID))
	}
	return subject, nil
}

func (f *fakeSubjects) List(_ context.Context, userID string) ([]domain.Subject, error) {
	var out []domain.Subject
	for _, s := range f.subjects {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubjects) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, s := range f.subjects {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubjects) Delete(_ context.Context, _, subjectID string) error {
	delete(f.subjects, subjectID)
	return nil
}

type fakeChunkStore struct {
	inserted []domain.StoredChunk
	matches  []domain.RetrievalMatch
	listed   []domain.StoredChunk

	lastK     int
	lastLimit int
	searchErr error
	listErr   error
	insertErr error
}

func (f *fakeChunkStore) InsertChunks(_ context.Context, chunks []domain.StoredChunk) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, chunks...)
	return nil
}

func (f *fakeChunkStore) NearestNeighbors(_ context.Context, _, _ string, _ []float32, k int) ([]domain.RetrievalMatch, error) {
	f.lastK = k
	return f.matches, f.searchErr
}

func (f *fakeChunkStore) ListChunks(_ context.Context, _, _ string, limit int) ([]domain.StoredChunk, error) {
	f.lastLimit = limit
	return f.listed, f.listErr
}

type fakeEmbedder struct {
	vectors  [][]float32
	queryVec []float32
	embedErr error
	calls    int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.vectors != nil {
		return f.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if f.queryVec != nil {
		return f.queryVec, nil
	}
	return []float32{0.1, 0.2}, nil
}

// fakeGenerator replays canned responses in order; the last response
// repeats once the script runs out.
type fakeGenerator struct {
	responses []string
	err       error
	calls     int

	lastSystemPrompt string
	lastUserPrompt   string
}

func (f *fakeGenerator) generate(systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystemPrompt = systemPrompt
	f.lastUserPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no scripted response")
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func (f *fakeGenerator) GenerateText(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.generate(systemPrompt, userPrompt)
}

func (f *fakeGenerator) GenerateJSON(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.generate(systemPrompt, userPrompt)
}

type fakeStorage struct {
	saved map[string][]byte
	err   error
}

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[key] = raw
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.saved[key]
	if !ok {
		return nil, fmt.Errorf("no such key %q", key)
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type fakeQueue struct {
	published []string
	err       error
}

func (f *fakeQueue) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *fakeQueue) SubscribeDocumentUploaded(_ context.Context, _ func(context.Context, string) error) error {
	return nil
}

type fakeDocs struct {
	docs     map[string]*domain.Document
	statuses []domain.DocumentStatus
	lastErr  string

	pageCount  int
	chunkCount int
}

func newFakeDocs(docs ...*domain.Document) *fakeDocs {
	m := make(map[string]*domain.Document, len(docs))
	for _, d := range docs {
		m[d.ID] = d
	}
	return &fakeDocs{docs: m}
}

func (f *fakeDocs) Create(_ context.Context, doc *domain.Document) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocs) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
	}
	return doc, nil
}

func (f *fakeDocs) ListBySubject(_ context.Context, _, _ string) ([]domain.Document, error) {
	return nil, nil
}

func (f *fakeDocs) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	f.lastErr = errMessage
	return nil
}

func (f *fakeDocs) SaveCounts(_ context.Context, _ string, pageCount, chunkCount int) error {
	f.pageCount = pageCount
	f.chunkCount = chunkCount
	return nil
}

type fakeExtractor struct {
	pages []domain.Page
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, _ *domain.Document) ([]domain.Page, error) {
	return f.pages, f.err
}

type fakeChunker struct {
	chunks []domain.Chunk
}

func (f *fakeChunker) ChunkPages(_ []domain.Page) []domain.Chunk {
	return f.chunks
}
