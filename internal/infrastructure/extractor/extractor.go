package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/askmynotes/backend/internal/core/domain"
	"github.com/askmynotes/backend/internal/core/ports"
)

// Dispatcher routes extraction by file extension. Upload already
// rejects unsupported types, so an unknown extension here means the
// stored metadata is inconsistent.
type Dispatcher struct {
	plaintext ports.PageExtractor
	pdf       ports.PageExtractor
}

func NewDispatcher(plaintext, pdf ports.PageExtractor) *Dispatcher {
	return &Dispatcher{plaintext: plaintext, pdf: pdf}
}

func (d *Dispatcher) Extract(ctx context.Context, doc *domain.Document) ([]domain.Page, error) {
	switch strings.ToLower(filepath.Ext(doc.FileName)) {
	case ".txt":
		return d.plaintext.Extract(ctx, doc)
	case ".pdf":
		return d.pdf.Extract(ctx, doc)
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract document",
			fmt.Errorf("unsupported file type: %s", doc.FileName))
	}
}
