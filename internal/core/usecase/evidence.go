package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/askmynotes/backend/internal/core/domain"
)

// The sentence splitter and tokenizer are ASCII-oriented heuristics.
// Abbreviations like "e.g." split imperfectly; that is a documented
// limitation, not something to patch around here.

func newStopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

// splitSentences breaks text on whitespace that follows a
// sentence-terminal mark. Returned sentences are trimmed but otherwise
// verbatim substrings of the input.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// normalizeTokens lowercases, strips everything outside [a-z0-9\s],
// splits on whitespace and drops stopwords. Question and sentence text
// go through the same path so scoring stays symmetric.
func normalizeTokens(text string, stopwords map[string]struct{}) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)

	fields := strings.Fields(cleaned)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// sentenceScore counts sentence token occurrences present in the
// question token set. Repeated matches add up.
func sentenceScore(sentence string, questionTokens map[string]struct{}, stopwords map[string]struct{}) int {
	score := 0
	for _, tok := range normalizeTokens(sentence, stopwords) {
		if _, ok := questionTokens[tok]; ok {
			score++
		}
	}
	return score
}

// scoreChunkEvidence extracts every sentence of a retrieved chunk that
// lexically overlaps the question. Zero-score sentences are discarded.
func scoreChunkEvidence(match domain.RetrievalMatch, questionTokens map[string]struct{}, stopwords map[string]struct{}) []domain.Evidence {
	var out []domain.Evidence
	for _, sentence := range splitSentences(match.Content) {
		score := sentenceScore(sentence, questionTokens, stopwords)
		if score <= 0 {
			continue
		}
		out = append(out, domain.Evidence{
			Text:       sentence,
			FileName:   match.FileName,
			PageRange:  match.PageRange,
			ChunkID:    match.ID,
			Similarity: match.Similarity,
			Score:      score,
		})
	}
	return out
}

// rankEvidence orders pooled evidence by lexical score, breaking ties
// by chunk similarity, and truncates to limit. The sort is stable so
// equal pairs keep pooling order.
func rankEvidence(evidences []domain.Evidence, limit int) []domain.Evidence {
	sort.SliceStable(evidences, func(i, j int) bool {
		if evidences[i].Score != evidences[j].Score {
			return evidences[i].Score > evidences[j].Score
		}
		return evidences[i].Similarity > evidences[j].Similarity
	})
	if limit > 0 && len(evidences) > limit {
		evidences = evidences[:limit]
	}
	return evidences
}
