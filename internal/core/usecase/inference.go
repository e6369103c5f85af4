package usecase

import (
	"errors"
	"fmt"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

// InferenceAdapter runs one cleaned text through the vectorizer and classifier.
// Callers must not pass empty text.
type InferenceAdapter struct {
	vectorizer ports.Vectorizer
	classifier ports.Classifier
}

func NewInferenceAdapter(vectorizer ports.Vectorizer, classifier ports.Classifier) *InferenceAdapter {
	return &InferenceAdapter{
		vectorizer: vectorizer,
		classifier: classifier,
	}
}

func (a *InferenceAdapter) Infer(cleanedText string) (domain.Prediction, error) {
	if a.vectorizer == nil || a.classifier == nil {
		return domain.Prediction{}, domain.WrapError(domain.ErrModelUnavailable, "infer", errors.New("model or vectorizer not loaded"))
	}

	vectors, err := a.vectorizer.Transform([]string{cleanedText})
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("vectorize text: %w", err)
	}
	if len(vectors) != 1 {
		return domain.Prediction{}, fmt.Errorf("vectorize text: expected 1 vector, got %d", len(vectors))
	}

	labels, err := a.classifier.Predict(vectors)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("predict label: %w", err)
	}
	distributions, err := a.classifier.PredictProba(vectors)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("predict probabilities: %w", err)
	}
	if len(labels) != 1 || len(distributions) != 1 {
		return domain.Prediction{}, fmt.Errorf("predict: labels/distributions mismatch: %d/%d", len(labels), len(distributions))
	}

	top, ok := distributions[0].Max()
	if !ok {
		return domain.Prediction{}, errors.New("predict probabilities: empty distribution")
	}

	return domain.Prediction{
		Label:        labels[0],
		Confidence:   top.Probability * 100,
		Distribution: distributions[0],
	}, nil
}
