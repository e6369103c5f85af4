package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// TextExtractor extracts raw text from an in-memory document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// TextNormalizer turns raw text into the token stream the vectorizer was fit on.
type TextNormalizer interface {
	Clean(text string) string
}

// Vectorizer maps cleaned texts to fixed-dimension feature vectors.
type Vectorizer interface {
	Transform(texts []string) ([]domain.FeatureVector, error)
	Dimension() int
	Kind() string
}

// Classifier maps feature vectors to labels and class probabilities.
type Classifier interface {
	Predict(vectors []domain.FeatureVector) ([]string, error)
	PredictProba(vectors []domain.FeatureVector) ([]domain.Distribution, error)
	Classes() []string
	Features() int
	Kind() string
}

// ArtifactStore opens serialized model artifacts by key.
type ArtifactStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// PipelineObserver receives per-stage timings and per-request outcomes.
type PipelineObserver interface {
	ObserveStage(stage string, duration time.Duration, err error)
	ObserveClassification(mediaType domain.MediaType, label string, confidence float64, err error)
}
