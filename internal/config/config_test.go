package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRetrievalDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("EVIDENCE_LIMIT", "")
	t.Setenv("SIMILARITY_THRESHOLD", "")
	t.Setenv("CHUNK_WORDS", "")
	t.Setenv("CHUNK_OVERLAP", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalTopK != 15 {
		t.Fatalf("expected default top k 15, got %d", cfg.RetrievalTopK)
	}
	if cfg.EvidenceLimit != 8 {
		t.Fatalf("expected default evidence limit 8, got %d", cfg.EvidenceLimit)
	}
	if cfg.SimilarityThreshold != 0.35 {
		t.Fatalf("expected default similarity threshold 0.35, got %v", cfg.SimilarityThreshold)
	}
	if cfg.ChunkWords != 500 || cfg.ChunkOverlap != 100 {
		t.Fatalf("expected default chunk window 500/100, got %d/%d", cfg.ChunkWords, cfg.ChunkOverlap)
	}
	if len(cfg.Stopwords) == 0 || len(cfg.CoverageKeywords) == 0 {
		t.Fatalf("expected default stopword and keyword sets")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SIMILARITY_THRESHOLD", "0.5")
	t.Setenv("COVERAGE_KEYWORDS", "theorem, proof ,lemma")
	t.Setenv("COVERAGE_CAP", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SimilarityThreshold != 0.5 {
		t.Fatalf("expected similarity threshold override, got %v", cfg.SimilarityThreshold)
	}
	if cfg.CoverageCap != 30 {
		t.Fatalf("expected coverage cap 30, got %d", cfg.CoverageCap)
	}
	want := []string{"theorem", "proof", "lemma"}
	if len(cfg.CoverageKeywords) != len(want) {
		t.Fatalf("expected %d keywords, got %v", len(want), cfg.CoverageKeywords)
	}
	for i, kw := range want {
		if cfg.CoverageKeywords[i] != kw {
			t.Fatalf("expected keyword %q at %d, got %q", kw, i, cfg.CoverageKeywords[i])
		}
	}
}

func TestLoadAppliesYAMLFileUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "similarity_threshold: 0.4\napi_port: \"9001\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "9002")
	t.Setenv("SIMILARITY_THRESHOLD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SimilarityThreshold != 0.4 {
		t.Fatalf("expected threshold from file, got %v", cfg.SimilarityThreshold)
	}
	if cfg.APIPort != "9002" {
		t.Fatalf("expected env to override file, got %q", cfg.APIPort)
	}
}
