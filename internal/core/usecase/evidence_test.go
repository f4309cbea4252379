package usecase

import (
	"reflect"
	"testing"

	"github.com/askmynotes/backend/internal/config"
	"github.com/askmynotes/backend/internal/core/domain"
)

func testStopwords() map[string]struct{} {
	return newStopwordSet(config.DefaultStopwords)
}

func TestSplitSentencesKeepsVerbatimText(t *testing.T) {
	text := "A binary search tree is a node-based tree structure. Each node has at most two children! Is that clear?"
	got := splitSentences(text)
	want := []string{
		"A binary search tree is a node-based tree structure.",
		"Each node has at most two children!",
		"Is that clear?",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitSentences() = %#v, want %#v", got, want)
	}
}

func TestSplitSentencesHandlesTrailingFragment(t *testing.T) {
	got := splitSentences("First sentence. trailing fragment without terminal")
	if len(got) != 2 {
		t.Fatalf("expected 2 pieces, got %#v", got)
	}
	if got[1] != "trailing fragment without terminal" {
		t.Fatalf("unexpected trailing piece: %q", got[1])
	}
}

func TestNormalizeTokensDropsStopwordsAndPunctuation(t *testing.T) {
	got := normalizeTokens("The QUICK (brown) fox, and the dog!", testStopwords())
	want := []string{"quick", "brown", "fox", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeTokens() = %#v, want %#v", got, want)
	}
}

func TestSentenceScoreCountsRepeatedMatches(t *testing.T) {
	stopwords := testStopwords()
	questionTokens := tokenSet(normalizeTokens("tree structure", stopwords))
	score := sentenceScore("A tree structure stores tree nodes.", questionTokens, stopwords)
	// "tree" matches twice and "structure" once.
	if score != 3 {
		t.Fatalf("expected score 3, got %d", score)
	}
}

func TestScoreChunkEvidenceDiscardsZeroScores(t *testing.T) {
	stopwords := testStopwords()
	questionTokens := tokenSet(normalizeTokens("binary search tree", stopwords))
	match := domain.RetrievalMatch{
		StoredChunk: domain.StoredChunk{
			ID:       "c1",
			FileName: "notes.pdf",
			Content:  "A binary search tree orders keys. Cooking pasta requires salted water.",
		},
		Similarity: 0.8,
	}
	evidences := scoreChunkEvidence(match, questionTokens, stopwords)
	if len(evidences) != 1 {
		t.Fatalf("expected 1 evidence, got %d", len(evidences))
	}
	if evidences[0].Text != "A binary search tree orders keys." {
		t.Fatalf("unexpected evidence: %q", evidences[0].Text)
	}
	if evidences[0].ChunkID != "c1" || evidences[0].Similarity != 0.8 {
		t.Fatalf("provenance not carried: %+v", evidences[0])
	}
}

func TestRankEvidencePrefersScoreThenSimilarity(t *testing.T) {
	evidences := []domain.Evidence{
		{Text: "low score", Score: 1, Similarity: 0.99},
		{Text: "high score", Score: 3, Similarity: 0.5},
		{Text: "tie lower similarity", Score: 2, Similarity: 0.6},
		{Text: "tie higher similarity", Score: 2, Similarity: 0.7},
	}
	ranked := rankEvidence(evidences, 3)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 evidences after truncation, got %d", len(ranked))
	}
	if ranked[0].Text != "high score" {
		t.Fatalf("expected lexical score to dominate, got %q first", ranked[0].Text)
	}
	if ranked[1].Text != "tie higher similarity" || ranked[2].Text != "tie lower similarity" {
		t.Fatalf("similarity tie-break failed: %q then %q", ranked[1].Text, ranked[2].Text)
	}
}
