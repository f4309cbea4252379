package chunking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/askmynotes/backend/internal/core/domain"
)

func words(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(out, " ")
}

func TestChunkPagesShortPageYieldsSingleChunk(t *testing.T) {
	s := NewSplitter(500, 100)
	chunks := s.ChunkPages([]domain.Page{{Number: 1, Text: "just a few words here"}})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "just a few words here" {
		t.Fatalf("unexpected content: %q", chunks[0].Content)
	}
	if chunks[0].Index != 0 || chunks[0].PageRange != "1" {
		t.Fatalf("unexpected metadata: %+v", chunks[0])
	}
}

func TestChunkPagesWindowsOverlap(t *testing.T) {
	s := NewSplitter(500, 100)
	chunks := s.ChunkPages([]domain.Page{{Number: 1, Text: words(1200)}})

	// 1200 words: [0,500), [400,900), [800,1200).
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Fatalf("chunk %d has index %d", i, c.Index)
		}
	}
	first := strings.Fields(chunks[0].Content)
	second := strings.Fields(chunks[1].Content)
	if len(first) != 500 || len(second) != 500 {
		t.Fatalf("expected full 500-word windows, got %d and %d", len(first), len(second))
	}
	if first[400] != second[0] {
		t.Fatalf("expected 100-word overlap: %q vs %q", first[400], second[0])
	}
	last := strings.Fields(chunks[2].Content)
	if last[len(last)-1] != "w1199" {
		t.Fatalf("final window must end at the last word, got %q", last[len(last)-1])
	}
}

func TestChunkPagesCoversEveryWord(t *testing.T) {
	s := NewSplitter(500, 100)
	chunks := s.ChunkPages([]domain.Page{{Number: 1, Text: words(1337)}})

	seen := map[string]struct{}{}
	for _, c := range chunks {
		for _, w := range strings.Fields(c.Content) {
			seen[w] = struct{}{}
		}
	}
	for i := 0; i < 1337; i++ {
		if _, ok := seen[fmt.Sprintf("w%d", i)]; !ok {
			t.Fatalf("word w%d missing from every chunk", i)
		}
	}
}

func TestChunkPagesIndexRestartsPerPage(t *testing.T) {
	s := NewSplitter(500, 100)
	chunks := s.ChunkPages([]domain.Page{
		{Number: 1, Text: words(600)},
		{Number: 2, Text: words(600)},
	})
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[1].Index != 1 {
		t.Fatalf("page 1 indexes wrong: %d %d", chunks[0].Index, chunks[1].Index)
	}
	if chunks[2].Index != 0 || chunks[3].Index != 1 {
		t.Fatalf("indexes must restart on page 2: %d %d", chunks[2].Index, chunks[3].Index)
	}
	if chunks[0].PageRange != "1" || chunks[2].PageRange != "2" {
		t.Fatalf("page attribution wrong: %q %q", chunks[0].PageRange, chunks[2].PageRange)
	}
}

func TestChunkPagesSkipsWhitespacePages(t *testing.T) {
	s := NewSplitter(500, 100)
	chunks := s.ChunkPages([]domain.Page{
		{Number: 1, Text: "   \n\t  "},
		{Number: 2, Text: "actual content"},
	})
	if len(chunks) != 1 {
		t.Fatalf("expected whitespace page to yield nothing, got %d chunks", len(chunks))
	}
	if chunks[0].PageRange != "2" {
		t.Fatalf("surviving chunk must belong to page 2")
	}
}

func TestNewSplitterGuardsDegenerateOverlap(t *testing.T) {
	s := NewSplitter(100, 100)
	if s.Overlap >= s.Words {
		t.Fatalf("overlap %d must be clamped below window %d", s.Overlap, s.Words)
	}

	// A degenerate overlap must still terminate and cover the text.
	chunks := s.ChunkPages([]domain.Page{{Number: 1, Text: words(250)}})
	if len(chunks) == 0 {
		t.Fatalf("expected chunks")
	}
	last := strings.Fields(chunks[len(chunks)-1].Content)
	if last[len(last)-1] != "w249" {
		t.Fatalf("final chunk must reach the last word")
	}
}
