package bootstrap

import (
	"context"
	"fmt"

	"github.com/askmynotes/backend/internal/config"
	"github.com/askmynotes/backend/internal/core/ports"
	"github.com/askmynotes/backend/internal/core/usecase"
	"github.com/askmynotes/backend/internal/infrastructure/chunking"
	ollamaembed "github.com/askmynotes/backend/internal/infrastructure/embedding/ollama"
	"github.com/askmynotes/backend/internal/infrastructure/extractor"
	"github.com/askmynotes/backend/internal/infrastructure/extractor/pdftext"
	"github.com/askmynotes/backend/internal/infrastructure/extractor/plaintext"
	"github.com/askmynotes/backend/internal/infrastructure/identity/gotrue"
	"github.com/askmynotes/backend/internal/infrastructure/llm/groq"
	"github.com/askmynotes/backend/internal/infrastructure/queue/nats"
	"github.com/askmynotes/backend/internal/infrastructure/repository/postgres"
	"github.com/askmynotes/backend/internal/infrastructure/resilience"
	"github.com/askmynotes/backend/internal/infrastructure/storage/localfs"
)

// App wires every adapter behind the core ports. Both binaries build
// the same graph and pick the pieces they serve.
type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Subjects  ports.SubjectRepository
	Documents ports.DocumentRepository
	Verifier  ports.TokenVerifier

	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	QAUC        ports.QuestionAnswerer
	StudyUC     ports.StudyGenerator
	AssistantUC ports.FollowUpAssistant

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db, cfg.EmbeddingDim); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	subjects := postgres.NewSubjectRepository(db)
	documents := postgres.NewDocumentRepository(db)
	chunks := postgres.NewChunkRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	embedder := ollamaembed.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel, ollamaembed.Options{
		ResilienceExecutor: executor,
	})
	generator := groq.New(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel, groq.Options{
		ResilienceExecutor: executor,
	})
	verifier := gotrue.NewVerifier(cfg.AuthBaseURL, cfg.AuthAnonKey, nil)

	pages := extractor.NewDispatcher(
		plaintext.NewExtractor(storage),
		pdftext.NewExtractor(storage),
	)
	chunker := chunking.NewSplitter(cfg.ChunkWords, cfg.ChunkOverlap)

	ingestUC := usecase.NewIngestDocumentUseCase(subjects, documents, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(documents, pages, chunker, embedder, chunks)
	qaUC := usecase.NewQAUseCase(subjects, chunks, embedder, usecase.QAConfig{
		TopK:          cfg.RetrievalTopK,
		EvidenceLimit: cfg.EvidenceLimit,
		Thresholds: usecase.ConfidenceThresholds{
			NotFound: cfg.SimilarityThreshold,
			Medium:   cfg.MediumThreshold,
			High:     cfg.HighThreshold,
		},
		Stopwords: cfg.Stopwords,
	})
	studyUC := usecase.NewStudyUseCase(subjects, chunks, generator, usecase.StudyConfig{
		ChunkLimit:         cfg.StudyChunkLimit,
		CoverageCap:        cfg.CoverageCap,
		CoverageKeywordCap: cfg.CoverageKeywordCap,
		CoverageKeywords:   cfg.CoverageKeywords,
		Attempts:           cfg.GenerationAttempts,
	})
	assistantUC := usecase.NewFollowUpUseCase(subjects, chunks, embedder, generator, cfg.RetrievalTopK)

	return &App{
		Config: cfg,

		Queue:     queue,
		Subjects:  subjects,
		Documents: documents,
		Verifier:  verifier,

		IngestUC:    ingestUC,
		ProcessUC:   processUC,
		QAUC:        qaUC,
		StudyUC:     studyUC,
		AssistantUC: assistantUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
