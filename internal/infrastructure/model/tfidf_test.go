package model

import (
	"math"
	"strings"
	"testing"
)

const eps = 1e-9

func ptr[T any](v T) *T { return &v }

func mustVectorizer(t *testing.T, a VectorizerArtifact) *TfidfVectorizer {
	t.Helper()
	v, err := NewTfidfVectorizer(a)
	if err != nil {
		t.Fatalf("NewTfidfVectorizer() error = %v", err)
	}
	return v
}

func TestTfidfTransformWeightsAndL2Normalizes(t *testing.T) {
	v := mustVectorizer(t, VectorizerArtifact{
		Vocabulary: map[string]int{"go": 0, "python": 1, "java": 2},
		IDF:        []float64{1, 2, 3},
	})

	vectors, err := v.Transform([]string{"go go python haskell"})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(vectors) != 1 {
		t.Fatalf("expected one vector, got %d", len(vectors))
	}
	got := vectors[0]
	if got.Dim != 3 {
		t.Fatalf("expected dim 3, got %d", got.Dim)
	}
	if len(got.Indices) != 2 || got.Indices[0] != 0 || got.Indices[1] != 1 {
		t.Fatalf("unexpected indices: %v", got.Indices)
	}
	want := 1 / math.Sqrt2
	for i, value := range got.Values {
		if math.Abs(value-want) > eps {
			t.Fatalf("value[%d] = %v, want %v", i, value, want)
		}
	}
}

func TestTfidfSublinearWithoutIDF(t *testing.T) {
	v := mustVectorizer(t, VectorizerArtifact{
		Vocabulary:  map[string]int{"go": 0, "python": 1},
		UseIDF:      ptr(false),
		SublinearTF: true,
		Norm:        ptr("none"),
	})

	vectors, _ := v.Transform([]string{"go python go"})
	got := vectors[0]
	if math.Abs(got.Values[0]-(1+math.Log(2))) > eps {
		t.Fatalf("expected sublinear tf for go, got %v", got.Values[0])
	}
	if math.Abs(got.Values[1]-1) > eps {
		t.Fatalf("expected tf 1 for python, got %v", got.Values[1])
	}
}

func TestTfidfBinaryL1(t *testing.T) {
	v := mustVectorizer(t, VectorizerArtifact{
		Vocabulary: map[string]int{"go": 0, "python": 1},
		UseIDF:     ptr(false),
		Binary:     true,
		Norm:       ptr("l1"),
	})

	vectors, _ := v.Transform([]string{"go go go python"})
	for i, value := range vectors[0].Values {
		if math.Abs(value-0.5) > eps {
			t.Fatalf("value[%d] = %v, want 0.5", i, value)
		}
	}
}

func TestTfidfWordNgrams(t *testing.T) {
	v := mustVectorizer(t, VectorizerArtifact{
		Vocabulary: map[string]int{"machine learning": 0, "machine": 1, "learning": 2},
		UseIDF:     ptr(false),
		NgramRange: []int{1, 2},
		Norm:       ptr("none"),
	})

	vectors, _ := v.Transform([]string{"machine learning"})
	got := vectors[0]
	if len(got.Indices) != 3 {
		t.Fatalf("expected unigrams and bigram to match, got indices %v", got.Indices)
	}
	for i, value := range got.Values {
		if value != 1 {
			t.Fatalf("value[%d] = %v, want 1", i, value)
		}
	}
}

func TestTfidfTokenPatternAndLowercase(t *testing.T) {
	v := mustVectorizer(t, VectorizerArtifact{
		Vocabulary: map[string]int{"go": 0, "a": 1},
		UseIDF:     ptr(false),
		Norm:       ptr("none"),
	})

	vectors, _ := v.Transform([]string{"a GO"})
	got := vectors[0]
	if len(got.Indices) != 1 || got.Indices[0] != 0 {
		t.Fatalf("expected only the two-letter token to match, got %v", got.Indices)
	}

	caseSensitive := mustVectorizer(t, VectorizerArtifact{
		Vocabulary:   map[string]int{"go": 0, "a": 1},
		UseIDF:       ptr(false),
		Lowercase:    ptr(false),
		TokenPattern: `(?u)\b\w+\b`,
		Norm:         ptr("none"),
	})
	vectors, _ = caseSensitive.Transform([]string{"a GO"})
	got = vectors[0]
	if len(got.Indices) != 1 || got.Indices[0] != 1 {
		t.Fatalf("expected only 'a' to match case-sensitively, got %v", got.Indices)
	}
}

func TestTfidfEmptyTextKeepsDimension(t *testing.T) {
	v := mustVectorizer(t, VectorizerArtifact{
		Vocabulary: map[string]int{"go": 0, "python": 1},
		IDF:        []float64{1, 1},
	})

	vectors, err := v.Transform([]string{""})
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if vectors[0].Dim != 2 || len(vectors[0].Indices) != 0 {
		t.Fatalf("unexpected vector for empty text: %+v", vectors[0])
	}
}

func TestNewTfidfVectorizerRejectsInvalidArtifacts(t *testing.T) {
	tests := []struct {
		name     string
		artifact VectorizerArtifact
		wantErr  string
	}{
		{name: "empty vocabulary", artifact: VectorizerArtifact{}, wantErr: "vocabulary is empty"},
		{
			name:     "idf length",
			artifact: VectorizerArtifact{Vocabulary: map[string]int{"go": 0, "rust": 1}, IDF: []float64{1}},
			wantErr:  "idf has 1 weights",
		},
		{
			name:     "column out of range",
			artifact: VectorizerArtifact{Vocabulary: map[string]int{"go": 5}, IDF: []float64{1}},
			wantErr:  "outside",
		},
		{
			name:     "duplicate column",
			artifact: VectorizerArtifact{Vocabulary: map[string]int{"go": 0, "rust": 0}, IDF: []float64{1, 1}},
			wantErr:  "share column",
		},
		{
			name:     "ngram range",
			artifact: VectorizerArtifact{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1}, NgramRange: []int{2, 1}},
			wantErr:  "ngram_range",
		},
		{
			name:     "norm",
			artifact: VectorizerArtifact{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1}, Norm: ptr("max")},
			wantErr:  "unsupported norm",
		},
		{
			name:     "token pattern",
			artifact: VectorizerArtifact{Vocabulary: map[string]int{"go": 0}, IDF: []float64{1}, TokenPattern: `(\w`},
			wantErr:  "compile token pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTfidfVectorizer(tt.artifact)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
