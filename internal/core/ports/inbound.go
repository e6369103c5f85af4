package ports

import (
	"context"
	"io"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// ResumeClassifier is the inbound contract for classifying one uploaded document.
type ResumeClassifier interface {
	Classify(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.ClassificationResult, error)
}
