package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// LogisticRegression scores sparse vectors with a fitted linear model.
type LogisticRegression struct {
	classes     []string
	coef        [][]float64
	intercept   []float64
	features    int
	multinomial bool
}

func NewLogisticRegression(a ClassifierArtifact) (*LogisticRegression, error) {
	if err := checkClasses(a.Classes); err != nil {
		return nil, fmt.Errorf("logistic_regression: %w", err)
	}

	features, err := checkMatrix("coef", a.Coef)
	if err != nil {
		return nil, fmt.Errorf("logistic_regression: %w", err)
	}

	binary := len(a.Coef) == 1
	switch {
	case binary && len(a.Classes) != 2:
		return nil, fmt.Errorf("logistic_regression: single coef row needs 2 classes, got %d", len(a.Classes))
	case !binary && len(a.Coef) != len(a.Classes):
		return nil, fmt.Errorf("logistic_regression: coef has %d rows for %d classes", len(a.Coef), len(a.Classes))
	}
	if len(a.Intercept) != len(a.Coef) {
		return nil, fmt.Errorf("logistic_regression: intercept has %d values for %d coef rows", len(a.Intercept), len(a.Coef))
	}

	multinomial := true
	switch strings.ToLower(a.MultiClass) {
	case "", "auto", "multinomial":
	case "ovr":
		multinomial = false
	default:
		return nil, fmt.Errorf("logistic_regression: unsupported multi_class %q", a.MultiClass)
	}

	return &LogisticRegression{
		classes:     append([]string(nil), a.Classes...),
		coef:        a.Coef,
		intercept:   append([]float64(nil), a.Intercept...),
		features:    features,
		multinomial: multinomial,
	}, nil
}

func (m *LogisticRegression) Kind() string {
	return KindLogisticRegression
}

func (m *LogisticRegression) Classes() []string {
	return append([]string(nil), m.classes...)
}

func (m *LogisticRegression) Features() int {
	return m.features
}

func (m *LogisticRegression) Predict(vectors []domain.FeatureVector) ([]string, error) {
	out := make([]string, 0, len(vectors))
	for _, v := range vectors {
		scores, err := m.decision(v)
		if err != nil {
			return nil, err
		}
		if len(scores) == 1 {
			if scores[0] > 0 {
				out = append(out, m.classes[1])
			} else {
				out = append(out, m.classes[0])
			}
			continue
		}
		out = append(out, m.classes[argmax(scores)])
	}
	return out, nil
}

func (m *LogisticRegression) PredictProba(vectors []domain.FeatureVector) ([]domain.Distribution, error) {
	out := make([]domain.Distribution, 0, len(vectors))
	for _, v := range vectors {
		scores, err := m.decision(v)
		if err != nil {
			return nil, err
		}
		out = append(out, distribution(m.classes, m.probabilities(scores)))
	}
	return out, nil
}

func (m *LogisticRegression) decision(v domain.FeatureVector) ([]float64, error) {
	if err := checkVector(v, m.features); err != nil {
		return nil, fmt.Errorf("logistic_regression: %w", err)
	}
	scores := make([]float64, len(m.coef))
	for i, row := range m.coef {
		scores[i] = v.Dot(row) + m.intercept[i]
	}
	return scores, nil
}

func (m *LogisticRegression) probabilities(scores []float64) []float64 {
	if len(scores) == 1 {
		p := sigmoid(scores[0])
		return []float64{1 - p, p}
	}
	if m.multinomial {
		return softmax(scores)
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = sigmoid(s)
		sum += probs[i]
	}
	for i := range probs {
		if sum == 0 {
			probs[i] = 1 / float64(len(probs))
			continue
		}
		probs[i] /= sum
	}
	return probs
}

func checkClasses(classes []string) error {
	if len(classes) < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", len(classes))
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if strings.TrimSpace(c) == "" {
			return errors.New("class label is empty")
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate class %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
