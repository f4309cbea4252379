package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/askmynotes/backend/internal/core/domain"
	"github.com/askmynotes/backend/internal/core/ports"
)

const (
	mcqItemCount         = 5
	shortAnswerItemCount = 3
)

// StudyConfig tunes the grounded generator.
type StudyConfig struct {
	ChunkLimit         int
	CoverageCap        int
	CoverageKeywordCap int
	CoverageKeywords   []string
	Attempts           int
	Rand               *rand.Rand
}

// StudyUseCase turns a subject's chunks into practice questions whose
// citations provably point back into the exact chunk set shown to the
// model. The model output is untrusted: anything malformed, miscounted
// or citing outside the coverage set burns one of a fixed number of
// attempts.
type StudyUseCase struct {
	subjects  ports.SubjectRepository
	chunks    ports.ChunkStore
	generator ports.TextGenerator
	sampler   *coverageSampler
	limit     int
	attempts  int
}

func NewStudyUseCase(
	subjects ports.SubjectRepository,
	chunks ports.ChunkStore,
	generator ports.TextGenerator,
	cfg StudyConfig,
) *StudyUseCase {
	if cfg.ChunkLimit <= 0 {
		cfg.ChunkLimit = 200
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StudyUseCase{
		subjects:  subjects,
		chunks:    chunks,
		generator: generator,
		sampler:   newCoverageSampler(cfg.CoverageCap, cfg.CoverageKeywordCap, cfg.CoverageKeywords, cfg.Rand),
		limit:     cfg.ChunkLimit,
		attempts:  cfg.Attempts,
	}
}

func (uc *StudyUseCase) GenerateMCQs(ctx context.Context, userID, subjectID string) (*domain.MCQResult, error) {
	subject, coverage, universe, err := uc.prepareCoverage(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	if len(coverage) == 0 {
		return &domain.MCQResult{
			Status:  domain.StudyStatusInsufficient,
			Message: insufficientMessage(subject.Name),
		}, nil
	}

	userPrompt := buildMCQPrompt(subject.Name, coverage)
	var lastErr error
	for attempt := 1; attempt <= uc.attempts; attempt++ {
		raw, err := uc.generator.GenerateJSON(ctx, studySystemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			continue
		}
		items, err := parseMCQBatch(raw, universe)
		if err != nil {
			lastErr = err
			continue
		}
		return &domain.MCQResult{Status: domain.StudyStatusOK, Items: items}, nil
	}

	slog.Warn("mcq_generation_exhausted",
		"subject_id", subjectID,
		"attempts", uc.attempts,
		"error", lastErr,
	)
	return &domain.MCQResult{
		Status:  domain.StudyStatusInsufficient,
		Message: insufficientMessage(subject.Name),
	}, nil
}

func (uc *StudyUseCase) GenerateShortAnswers(ctx context.Context, userID, subjectID string) (*domain.ShortAnswerResult, error) {
	subject, coverage, universe, err := uc.prepareCoverage(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}
	if len(coverage) == 0 {
		return &domain.ShortAnswerResult{
			Status:  domain.StudyStatusInsufficient,
			Message: insufficientMessage(subject.Name),
		}, nil
	}

	userPrompt := buildShortAnswerPrompt(subject.Name, coverage)
	var lastErr error
	for attempt := 1; attempt <= uc.attempts; attempt++ {
		raw, err := uc.generator.GenerateJSON(ctx, studySystemPrompt, userPrompt)
		if err != nil {
			lastErr = err
			continue
		}
		items, err := parseShortAnswerBatch(raw, universe)
		if err != nil {
			lastErr = err
			continue
		}
		return &domain.ShortAnswerResult{Status: domain.StudyStatusOK, Items: items}, nil
	}

	slog.Warn("short_answer_generation_exhausted",
		"subject_id", subjectID,
		"attempts", uc.attempts,
		"error", lastErr,
	)
	return &domain.ShortAnswerResult{
		Status:  domain.StudyStatusInsufficient,
		Message: insufficientMessage(subject.Name),
	}, nil
}

// prepareCoverage verifies ownership, loads the bounded chunk pool and
// samples the coverage set. The returned universe holds the only chunk
// ids a generated citation may reference for this request.
func (uc *StudyUseCase) prepareCoverage(ctx context.Context, userID, subjectID string) (*domain.Subject, []domain.StoredChunk, map[string]struct{}, error) {
	subject, err := uc.subjects.GetByID(ctx, userID, subjectID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("verify subject ownership: %w", err)
	}

	pool, err := uc.chunks.ListChunks(ctx, userID, subjectID, uc.limit)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load subject chunks: %w", err)
	}
	if len(pool) == 0 {
		return subject, nil, nil, nil
	}

	coverage := uc.sampler.Sample(pool)
	universe := make(map[string]struct{}, len(coverage))
	for _, c := range coverage {
		universe[c.ID] = struct{}{}
	}
	return subject, coverage, universe, nil
}

func insufficientMessage(subjectName string) string {
	return fmt.Sprintf("Insufficient content in your notes for %s", subjectName)
}

const studySystemPrompt = `You are a study assistant. You ONLY use the provided chunks of text to create questions.
Do not use any outside knowledge.
Always include citations for each question, pointing to the chunk IDs and their file/page.
Output valid JSON only.`

func buildChunkContext(coverage []domain.StoredChunk) string {
	blocks := make([]string, 0, len(coverage))
	for _, c := range coverage {
		blocks = append(blocks, fmt.Sprintf("CHUNK_ID: %s\nFILE: %s\nPAGE: %s\nTEXT:\n%s\n---", c.ID, c.FileName, c.PageRange, c.Content))
	}
	return strings.Join(blocks, "\n\n")
}

func buildMCQPrompt(subjectName string, coverage []domain.StoredChunk) string {
	return fmt.Sprintf(`You are given course notes chunks for the subject %q.

Chunks:
%s

Task:
- Create exactly %d multiple-choice questions (MCQs).
- Each MCQ must have:
  - "question": string
  - "options": { "A": string, "B": string, "C": string, "D": string }
  - "correct": one of "A","B","C","D"
  - "explanation": brief explanation string
  - "citations": array of { "chunk_id": string, "file": string, "page": string } referencing ONLY the chunk IDs given above.

Important:
- Use ONLY the given chunks.
- Every question and explanation must be supported directly by at least one citation.

Return JSON with shape:
{ "items": [ {question, options, correct, explanation, citations: [...]}, ... ] }`,
		subjectName, buildChunkContext(coverage), mcqItemCount)
}

func buildShortAnswerPrompt(subjectName string, coverage []domain.StoredChunk) string {
	return fmt.Sprintf(`You are given course notes chunks for the subject %q.

Chunks:
%s

Task:
- Create exactly %d short-answer questions.
- Each item must have:
  - "question": string
  - "answer": model answer string
  - "citations": array of { "chunk_id": string, "file": string, "page": string } referencing ONLY the chunk IDs given above.

Important:
- Use ONLY the given chunks.
- Every question and answer must be supported directly by at least one citation.

Return JSON with shape:
{ "items": [ {question, answer, citations: [...]}, ... ] }`,
		subjectName, buildChunkContext(coverage), shortAnswerItemCount)
}

// stripCodeFences removes markdown fence wrapping that models sometimes
// add around JSON output.
func stripCodeFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

func parseMCQBatch(raw string, universe map[string]struct{}) ([]domain.MCQItem, error) {
	var batch struct {
		Items []domain.MCQItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &batch); err != nil {
		return nil, fmt.Errorf("parse generated json: %w", err)
	}
	if len(batch.Items) != mcqItemCount {
		return nil, fmt.Errorf("expected exactly %d mcq items, got %d", mcqItemCount, len(batch.Items))
	}
	for i, item := range batch.Items {
		if err := validateMCQItem(item, universe); err != nil {
			return nil, fmt.Errorf("mcq item %d: %w", i, err)
		}
	}
	return batch.Items, nil
}

func validateMCQItem(item domain.MCQItem, universe map[string]struct{}) error {
	if strings.TrimSpace(item.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	opts := item.Options
	if opts.A == "" || opts.B == "" || opts.C == "" || opts.D == "" {
		return fmt.Errorf("incomplete options")
	}
	switch item.Correct {
	case "A", "B", "C", "D":
	default:
		return fmt.Errorf("correct must be one of A-D, got %q", item.Correct)
	}
	if strings.TrimSpace(item.Explanation) == "" {
		return fmt.Errorf("explanation is empty")
	}
	return validateCitations(item.Citations, universe)
}

func parseShortAnswerBatch(raw string, universe map[string]struct{}) ([]domain.ShortAnswerItem, error) {
	var batch struct {
		Items []domain.ShortAnswerItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &batch); err != nil {
		return nil, fmt.Errorf("parse generated json: %w", err)
	}
	if len(batch.Items) != shortAnswerItemCount {
		return nil, fmt.Errorf("expected exactly %d short-answer items, got %d", shortAnswerItemCount, len(batch.Items))
	}
	for i, item := range batch.Items {
		if err := validateShortAnswerItem(item, universe); err != nil {
			return nil, fmt.Errorf("short-answer item %d: %w", i, err)
		}
	}
	return batch.Items, nil
}

func validateShortAnswerItem(item domain.ShortAnswerItem, universe map[string]struct{}) error {
	if strings.TrimSpace(item.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	if strings.TrimSpace(item.Answer) == "" {
		return fmt.Errorf("answer is empty")
	}
	return validateCitations(item.Citations, universe)
}

// validateCitations enforces citation closure: every cited chunk id
// must belong to the coverage set sampled for this request.
func validateCitations(citations []domain.Citation, universe map[string]struct{}) error {
	if len(citations) == 0 {
		return fmt.Errorf("at least one citation is required")
	}
	for _, cit := range citations {
		if _, ok := universe[cit.ChunkID]; !ok {
			return fmt.Errorf("citation refers to unknown chunk id %q", cit.ChunkID)
		}
	}
	return nil
}
