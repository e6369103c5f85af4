// Package extractor dispatches uploaded documents to the text extractor
// registered for their media type.
package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

type Router struct {
	extractors map[domain.MediaType]ports.TextExtractor
}

func NewRouter() *Router {
	return &Router{extractors: make(map[domain.MediaType]ports.TextExtractor)}
}

// Register binds an extractor to a media type, replacing any previous one.
func (r *Router) Register(mediaType domain.MediaType, extractor ports.TextExtractor) *Router {
	r.extractors[mediaType] = extractor
	return r
}

func (r *Router) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if doc == nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract", errors.New("document is nil"))
	}
	extractor, ok := r.extractors[doc.MediaType]
	if !ok {
		return "", domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract",
			fmt.Errorf("no extractor for %q", doc.MediaType),
		)
	}
	return extractor.Extract(ctx, doc)
}
