// Package model decodes pre-fit vectorizer and classifier artifacts and runs
// read-only inference with them.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	KindTfidf              = "tfidf"
	KindLogisticRegression = "logistic_regression"
	KindMultinomialNB      = "multinomial_nb"
)

// VectorizerArtifact is the serialized form of a fitted tf-idf vectorizer.
type VectorizerArtifact struct {
	Kind         string         `json:"kind" yaml:"kind"`
	Vocabulary   map[string]int `json:"vocabulary" yaml:"vocabulary"`
	IDF          []float64      `json:"idf" yaml:"idf"`
	NgramRange   []int          `json:"ngram_range" yaml:"ngram_range"`
	Lowercase    *bool          `json:"lowercase" yaml:"lowercase"`
	Binary       bool           `json:"binary" yaml:"binary"`
	SublinearTF  bool           `json:"sublinear_tf" yaml:"sublinear_tf"`
	UseIDF       *bool          `json:"use_idf" yaml:"use_idf"`
	Norm         *string        `json:"norm" yaml:"norm"`
	TokenPattern string         `json:"token_pattern" yaml:"token_pattern"`
}

// normNone marks a norm field that is present but null.
const normNone = "none"

func (a *VectorizerArtifact) UnmarshalJSON(data []byte) error {
	type plain VectorizerArtifact
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if _, ok := fields["norm"]; ok && out.Norm == nil {
		out.Norm = ptrTo(normNone)
	}
	*a = VectorizerArtifact(out)
	return nil
}

func (a *VectorizerArtifact) UnmarshalYAML(value *yaml.Node) error {
	type plain VectorizerArtifact
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	if out.Norm == nil && hasMappingKey(value, "norm") {
		out.Norm = ptrTo(normNone)
	}
	*a = VectorizerArtifact(out)
	return nil
}

func hasMappingKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func ptrTo(s string) *string {
	return &s
}

// ClassifierArtifact covers every supported classifier kind; only the fields
// of the declared kind are read.
type ClassifierArtifact struct {
	Kind    string   `json:"kind" yaml:"kind"`
	Classes []string `json:"classes" yaml:"classes"`

	Coef       [][]float64 `json:"coef" yaml:"coef"`
	Intercept  []float64   `json:"intercept" yaml:"intercept"`
	MultiClass string      `json:"multi_class" yaml:"multi_class"`

	ClassLogPrior  []float64   `json:"class_log_prior" yaml:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob" yaml:"feature_log_prob"`
}

// FormatFromKey picks the decoder from the artifact file extension.
func FormatFromKey(key string) (Format, error) {
	switch strings.ToLower(path.Ext(key)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported artifact extension for %q", key)
	}
}

func Decode(r io.Reader, format Format, out any) error {
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(out); err != nil {
			return fmt.Errorf("decode json artifact: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(out); err != nil {
			return fmt.Errorf("decode yaml artifact: %w", err)
		}
	default:
		return fmt.Errorf("unknown artifact format %q", format)
	}
	return nil
}

func LoadVectorizer(ctx context.Context, store ports.ArtifactStore, key string) (*TfidfVectorizer, error) {
	var artifact VectorizerArtifact
	if err := readArtifact(ctx, store, key, &artifact); err != nil {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "load vectorizer", err)
	}

	switch strings.ToLower(artifact.Kind) {
	case "", KindTfidf:
		vectorizer, err := NewTfidfVectorizer(artifact)
		if err != nil {
			return nil, domain.WrapError(domain.ErrModelUnavailable, "load vectorizer", err)
		}
		return vectorizer, nil
	default:
		return nil, domain.WrapError(
			domain.ErrModelUnavailable,
			"load vectorizer",
			fmt.Errorf("unsupported vectorizer kind %q", artifact.Kind),
		)
	}
}

func LoadClassifier(ctx context.Context, store ports.ArtifactStore, key string) (ports.Classifier, error) {
	var artifact ClassifierArtifact
	if err := readArtifact(ctx, store, key, &artifact); err != nil {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "load classifier", err)
	}

	var (
		classifier ports.Classifier
		err        error
	)
	switch strings.ToLower(artifact.Kind) {
	case KindLogisticRegression:
		classifier, err = NewLogisticRegression(artifact)
	case KindMultinomialNB:
		classifier, err = NewMultinomialNB(artifact)
	default:
		err = fmt.Errorf("unsupported classifier kind %q", artifact.Kind)
	}
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "load classifier", err)
	}
	return classifier, nil
}

// CheckCompatible verifies that the classifier was fit on the vectorizer's
// feature space.
func CheckCompatible(vectorizer ports.Vectorizer, classifier ports.Classifier) error {
	if vectorizer == nil || classifier == nil {
		return domain.WrapError(domain.ErrModelUnavailable, "check artifacts", errors.New("missing artifact"))
	}
	if vectorizer.Dimension() != classifier.Features() {
		return domain.WrapError(
			domain.ErrModelUnavailable,
			"check artifacts",
			fmt.Errorf("vectorizer has %d features, classifier expects %d", vectorizer.Dimension(), classifier.Features()),
		)
	}
	return nil
}

func Describe(vectorizer ports.Vectorizer, classifier ports.Classifier) domain.ModelInfo {
	classes := classifier.Classes()
	return domain.ModelInfo{
		ClassifierKind: classifier.Kind(),
		VectorizerKind: vectorizer.Kind(),
		Classes:        classes,
		Features:       vectorizer.Dimension(),
	}
}

func readArtifact(ctx context.Context, store ports.ArtifactStore, key string, out any) error {
	format, err := FormatFromKey(key)
	if err != nil {
		return err
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", key, err)
	}
	defer rc.Close()

	return Decode(rc, format, out)
}
