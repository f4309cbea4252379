package chunking

import (
	"fmt"
	"strings"

	"github.com/askmynotes/backend/internal/core/domain"
)

// Splitter slides a fixed-size word window with overlap across each
// page's text. Window size and overlap are the retrieval unit's IR
// granularity, so both are explicit tunables.
type Splitter struct {
	Words   int
	Overlap int
}

func NewSplitter(words, overlap int) *Splitter {
	if words <= 0 {
		words = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= words {
		overlap = words / 5
	}
	return &Splitter{
		Words:   words,
		Overlap: overlap,
	}
}

// ChunkPages chunks each page independently and concatenates the
// results in page order. Chunk indexes restart at 0 per page.
func (s *Splitter) ChunkPages(pages []domain.Page) []domain.Chunk {
	var out []domain.Chunk
	for _, page := range pages {
		out = append(out, s.chunkPage(page)...)
	}
	return out
}

// chunkPage emits overlapping windows over one page. A page with fewer
// than Words words yields a single chunk; an all-whitespace page yields
// none. The final window ends exactly at the last word and is never
// empty.
func (s *Splitter) chunkPage(page domain.Page) []domain.Chunk {
	words := strings.Fields(page.Text)
	if len(words) == 0 {
		return nil
	}

	pageRange := fmt.Sprintf("%d", page.Number)
	var chunks []domain.Chunk
	start := 0
	index := 0
	for start < len(words) {
		end := start + s.Words
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			Index:     index,
			Content:   strings.Join(words[start:end], " "),
			PageRange: pageRange,
		})
		index++
		if end == len(words) {
			break
		}
		start = end - s.Overlap
	}
	return chunks
}
