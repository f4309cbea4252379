package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/askmynotes/backend/internal/core/ports"
	"github.com/askmynotes/backend/internal/observability/metrics"
)

type RouterConfig struct {
	MaxUploadBytes    int64
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxInFlight       int
	BackpressureWait  time.Duration
	ServiceName       string
}

type Router struct {
	ingestor  ports.DocumentIngestor
	answerer  ports.QuestionAnswerer
	study     ports.StudyGenerator
	assistant ports.FollowUpAssistant
	subjects  ports.SubjectRepository
	documents ports.DocumentRepository
	verifier  ports.TokenVerifier
	metrics   *metrics.HTTPServerMetrics
	cfg       RouterConfig
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	answerer ports.QuestionAnswerer,
	study ports.StudyGenerator,
	assistant ports.FollowUpAssistant,
	subjects ports.SubjectRepository,
	documents ports.DocumentRepository,
	verifier ports.TokenVerifier,
	serverMetrics *metrics.HTTPServerMetrics,
	cfg RouterConfig,
) *Router {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 25 << 20
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 20
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 40
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 64
	}
	if cfg.BackpressureWait <= 0 {
		cfg.BackpressureWait = 200 * time.Millisecond
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "api"
	}
	return &Router{
		ingestor:  ingestor,
		answerer:  answerer,
		study:     study,
		assistant: assistant,
		subjects:  subjects,
		documents: documents,
		verifier:  verifier,
		metrics:   serverMetrics,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/v1/subjects", rt.handleSubjects)
	api.HandleFunc("/v1/subjects/", rt.deleteSubject)
	api.HandleFunc("/v1/documents", rt.handleDocuments)
	api.HandleFunc("/v1/qa", rt.answerQuestion)
	api.HandleFunc("/v1/study/mcq", rt.generateMCQs)
	api.HandleFunc("/v1/study/short", rt.generateShortAnswers)
	api.HandleFunc("/v1/assistant/followup", rt.followUp)

	var protected http.Handler = api
	protected = rt.authMiddleware(protected)
	protected = backpressureMiddleware(protected, rt.cfg.MaxInFlight, rt.cfg.BackpressureWait)
	protected = rateLimitMiddleware(protected, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)

	root := http.NewServeMux()
	root.HandleFunc("/healthz", rt.healthz)
	root.Handle("/v1/", protected)

	var handler http.Handler = root
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.cfg.ServiceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
