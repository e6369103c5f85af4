package model

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

type dirStoreFake struct {
	root string
}

func (s dirStoreFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, key))
}

type memStoreFake map[string]string

func (s memStoreFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := s[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestFormatFromKey(t *testing.T) {
	tests := map[string]Format{
		"clf.json":         FormatJSON,
		"models/TFIDF.YML": FormatYAML,
		"tfidf.yaml":       FormatYAML,
	}
	for key, want := range tests {
		got, err := FormatFromKey(key)
		if err != nil || got != want {
			t.Fatalf("FormatFromKey(%q) = %q, %v; want %q", key, got, err, want)
		}
	}
	if _, err := FormatFromKey("clf.joblib"); err == nil {
		t.Fatalf("expected error for joblib artifact")
	}
}

func TestLoadArtifactsFromTestdata(t *testing.T) {
	store := dirStoreFake{root: "testdata"}
	ctx := context.Background()

	vectorizer, err := LoadVectorizer(ctx, store, "tfidf.yaml")
	if err != nil {
		t.Fatalf("LoadVectorizer() error = %v", err)
	}
	if vectorizer.Dimension() != 4 {
		t.Fatalf("expected 4 features, got %d", vectorizer.Dimension())
	}

	for _, key := range []string{"logreg.json", "nb.yaml"} {
		t.Run(key, func(t *testing.T) {
			classifier, err := LoadClassifier(ctx, store, key)
			if err != nil {
				t.Fatalf("LoadClassifier() error = %v", err)
			}
			if err := CheckCompatible(vectorizer, classifier); err != nil {
				t.Fatalf("CheckCompatible() error = %v", err)
			}

			vectors, err := vectorizer.Transform([]string{"golang kubernetes golang"})
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			labels, err := classifier.Predict(vectors)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if labels[0] != "Engineering" {
				t.Fatalf("expected Engineering, got %s", labels[0])
			}

			info := Describe(vectorizer, classifier)
			if info.VectorizerKind != KindTfidf || info.Features != 4 || info.ClassifierKind != classifier.Kind() {
				t.Fatalf("unexpected model info: %+v", info)
			}
		})
	}
}

func TestCheckCompatibleRejectsDimensionMismatch(t *testing.T) {
	store := dirStoreFake{root: "testdata"}
	vectorizer, err := LoadVectorizer(context.Background(), store, "tfidf.yaml")
	if err != nil {
		t.Fatalf("LoadVectorizer() error = %v", err)
	}
	classifier, err := LoadClassifier(context.Background(), store, "mismatch.json")
	if err != nil {
		t.Fatalf("LoadClassifier() error = %v", err)
	}

	err = CheckCompatible(vectorizer, classifier)
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestLoadClassifierErrors(t *testing.T) {
	store := memStoreFake{
		"broken.json": `{"kind": "logistic_regression", "classes": [`,
		"nb.yaml":     "kind: multinomial_nb\nclasses: [a]\n",
	}
	ctx := context.Background()

	cases := []string{"unknown.json", "broken.json", "nb.yaml", "missing.json", "clf.pkl"}
	for _, key := range cases {
		t.Run(key, func(t *testing.T) {
			var err error
			if key == "unknown.json" {
				_, err = LoadClassifier(ctx, dirStoreFake{root: "testdata"}, key)
			} else {
				_, err = LoadClassifier(ctx, store, key)
			}
			if !errors.Is(err, domain.ErrModelUnavailable) {
				t.Fatalf("expected ErrModelUnavailable, got %v", err)
			}
		})
	}
}

func TestLoadVectorizerRejectsUnknownKind(t *testing.T) {
	store := memStoreFake{"v.json": `{"kind": "count", "vocabulary": {"go": 0}}`}
	_, err := LoadVectorizer(context.Background(), store, "v.json")
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "unsupported vectorizer kind") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeVectorizerNullNormDisablesNormalization(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
		want   []float64
	}{
		{
			name:   "json null",
			format: FormatJSON,
			doc:    `{"vocabulary":{"aa":0,"bb":1},"use_idf":false,"norm":null}`,
			want:   []float64{2, 1},
		},
		{
			name:   "yaml null",
			format: FormatYAML,
			doc:    "vocabulary: {aa: 0, bb: 1}\nuse_idf: false\nnorm: null\n",
			want:   []float64{2, 1},
		},
		{
			name:   "json absent",
			format: FormatJSON,
			doc:    `{"vocabulary":{"aa":0,"bb":1},"use_idf":false}`,
			want:   []float64{2 / math.Sqrt(5), 1 / math.Sqrt(5)},
		},
		{
			name:   "yaml absent",
			format: FormatYAML,
			doc:    "vocabulary: {aa: 0, bb: 1}\nuse_idf: false\n",
			want:   []float64{2 / math.Sqrt(5), 1 / math.Sqrt(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var artifact VectorizerArtifact
			if err := Decode(strings.NewReader(tt.doc), tt.format, &artifact); err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			v := mustVectorizer(t, artifact)

			vectors, err := v.Transform([]string{"aa aa bb"})
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			got := vectors[0].Values
			if len(got) != len(tt.want) {
				t.Fatalf("values = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > eps {
					t.Fatalf("values = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
