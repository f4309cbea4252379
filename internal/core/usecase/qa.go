package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/askmynotes/backend/internal/core/domain"
	"github.com/askmynotes/backend/internal/core/ports"
)

// QAConfig tunes the retrieval orchestrator.
type QAConfig struct {
	TopK          int
	EvidenceLimit int
	Thresholds    ConfidenceThresholds
	Stopwords     []string
}

// QAUseCase answers a question with ranked verbatim sentences from the
// user's own notes. No generative model is invoked on this path: the
// answer is either traceable evidence or an honest not-found.
type QAUseCase struct {
	subjects  ports.SubjectRepository
	chunks    ports.ChunkStore
	embedder  ports.Embedder
	topK      int
	limit     int
	cutoffs   ConfidenceThresholds
	stopwords map[string]struct{}
}

func NewQAUseCase(
	subjects ports.SubjectRepository,
	chunks ports.ChunkStore,
	embedder ports.Embedder,
	cfg QAConfig,
) *QAUseCase {
	if cfg.TopK <= 0 {
		cfg.TopK = 15
	}
	if cfg.EvidenceLimit <= 0 {
		cfg.EvidenceLimit = 8
	}
	zero := ConfidenceThresholds{}
	if cfg.Thresholds == zero {
		cfg.Thresholds = DefaultConfidenceThresholds()
	}
	return &QAUseCase{
		subjects:  subjects,
		chunks:    chunks,
		embedder:  embedder,
		topK:      cfg.TopK,
		limit:     cfg.EvidenceLimit,
		cutoffs:   cfg.Thresholds,
		stopwords: newStopwordSet(cfg.Stopwords),
	}
}

func (uc *QAUseCase) Answer(ctx context.Context, userID, subjectID, question string) (*domain.QAResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "qa answer", fmt.Errorf("question is required"))
	}

	subject, err := uc.subjects.GetByID(ctx, userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("verify subject ownership: %w", err)
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := uc.chunks.NearestNeighbors(ctx, userID, subjectID, queryVector, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("nearest neighbor search: %w", err)
	}
	if len(matches) == 0 {
		return notFoundResult(subject.Name), nil
	}

	best, hasBest := bestSimilarity(matches)
	confidence := classifyConfidence(best, hasBest, uc.cutoffs)
	if confidence == domain.ConfidenceNotFound {
		return notFoundResult(subject.Name), nil
	}

	questionTokens := tokenSet(normalizeTokens(question, uc.stopwords))
	var pooled []domain.Evidence
	for _, match := range matches {
		pooled = append(pooled, scoreChunkEvidence(match, questionTokens, uc.stopwords)...)
	}

	top := rankEvidence(pooled, uc.limit)
	if len(top) == 0 {
		// Vector similarity alone, with no lexically overlapping
		// sentence anywhere, is not enough to assert an answer exists.
		return notFoundResult(subject.Name), nil
	}

	snippets := make([]domain.Snippet, 0, len(top))
	for _, ev := range top {
		snippets = append(snippets, domain.Snippet{
			Text:       ev.Text,
			FileName:   ev.FileName,
			PageRange:  ev.PageRange,
			ChunkID:    ev.ChunkID,
			Similarity: ev.Similarity,
		})
	}

	return &domain.QAResult{
		Status:     domain.QAStatusOK,
		Confidence: confidence,
		Snippets:   snippets,
	}, nil
}

func bestSimilarity(matches []domain.RetrievalMatch) (float64, bool) {
	best := 0.0
	found := false
	for _, m := range matches {
		if !found || m.Similarity > best {
			best = m.Similarity
			found = true
		}
	}
	return best, found
}

func notFoundResult(subjectName string) *domain.QAResult {
	return &domain.QAResult{
		Status:  domain.QAStatusNotFound,
		Message: fmt.Sprintf("Not found in your notes for %s", subjectName),
	}
}
