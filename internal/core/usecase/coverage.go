package usecase

import (
	"math/rand"
	"strings"

	"github.com/askmynotes/backend/internal/core/domain"
)

// coverageSampler narrows an unbounded chunk pool to a bounded,
// topically diverse sample for one generation request. Keyword-matched
// chunks keep their original order; the rest of the budget is filled by
// random sampling without replacement, so repeated study sessions see
// different material. The random source is injected for deterministic
// tests.
type coverageSampler struct {
	cap        int
	keywordCap int
	keywords   []string
	rnd        *rand.Rand
}

func newCoverageSampler(capLimit, keywordCap int, keywords []string, rnd *rand.Rand) *coverageSampler {
	if capLimit <= 0 {
		capLimit = 50
	}
	if keywordCap <= 0 || keywordCap > capLimit {
		keywordCap = capLimit / 2
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &coverageSampler{
		cap:        capLimit,
		keywordCap: keywordCap,
		keywords:   lowered,
		rnd:        rnd,
	}
}

func (s *coverageSampler) Sample(chunks []domain.StoredChunk) []domain.StoredChunk {
	if len(chunks) <= s.cap {
		return chunks
	}

	var keywordMatches, remaining []domain.StoredChunk
	for _, c := range chunks {
		if s.matchesKeyword(c.Content) {
			keywordMatches = append(keywordMatches, c)
		} else {
			remaining = append(remaining, c)
		}
	}

	selected := make([]domain.StoredChunk, 0, s.cap)
	for _, c := range keywordMatches {
		if len(selected) == s.keywordCap {
			break
		}
		selected = append(selected, c)
	}

	need := s.cap - len(selected)
	if need > len(remaining) {
		need = len(remaining)
	}
	for _, idx := range s.rnd.Perm(len(remaining))[:need] {
		selected = append(selected, remaining[idx])
	}
	return selected
}

func (s *coverageSampler) matchesKeyword(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
