package model

import (
	"fmt"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

// MultinomialNB scores vectors by joint log-likelihood per class.
type MultinomialNB struct {
	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64
	features       int
}

func NewMultinomialNB(a ClassifierArtifact) (*MultinomialNB, error) {
	if err := checkClasses(a.Classes); err != nil {
		return nil, fmt.Errorf("multinomial_nb: %w", err)
	}
	features, err := checkMatrix("feature_log_prob", a.FeatureLogProb)
	if err != nil {
		return nil, fmt.Errorf("multinomial_nb: %w", err)
	}
	if len(a.FeatureLogProb) != len(a.Classes) {
		return nil, fmt.Errorf("multinomial_nb: feature_log_prob has %d rows for %d classes", len(a.FeatureLogProb), len(a.Classes))
	}
	if len(a.ClassLogPrior) != len(a.Classes) {
		return nil, fmt.Errorf("multinomial_nb: class_log_prior has %d values for %d classes", len(a.ClassLogPrior), len(a.Classes))
	}

	return &MultinomialNB{
		classes:        append([]string(nil), a.Classes...),
		classLogPrior:  append([]float64(nil), a.ClassLogPrior...),
		featureLogProb: a.FeatureLogProb,
		features:       features,
	}, nil
}

func (m *MultinomialNB) Kind() string {
	return KindMultinomialNB
}

func (m *MultinomialNB) Classes() []string {
	return append([]string(nil), m.classes...)
}

func (m *MultinomialNB) Features() int {
	return m.features
}

func (m *MultinomialNB) Predict(vectors []domain.FeatureVector) ([]string, error) {
	out := make([]string, 0, len(vectors))
	for _, v := range vectors {
		jll, err := m.jointLogLikelihood(v)
		if err != nil {
			return nil, err
		}
		out = append(out, m.classes[argmax(jll)])
	}
	return out, nil
}

func (m *MultinomialNB) PredictProba(vectors []domain.FeatureVector) ([]domain.Distribution, error) {
	out := make([]domain.Distribution, 0, len(vectors))
	for _, v := range vectors {
		jll, err := m.jointLogLikelihood(v)
		if err != nil {
			return nil, err
		}
		out = append(out, distribution(m.classes, softmax(jll)))
	}
	return out, nil
}

func (m *MultinomialNB) jointLogLikelihood(v domain.FeatureVector) ([]float64, error) {
	if err := checkVector(v, m.features); err != nil {
		return nil, fmt.Errorf("multinomial_nb: %w", err)
	}
	jll := make([]float64, len(m.classes))
	for i := range m.classes {
		jll[i] = v.Dot(m.featureLogProb[i]) + m.classLogPrior[i]
	}
	return jll, nil
}
