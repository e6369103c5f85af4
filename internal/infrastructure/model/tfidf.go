package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

const defaultTokenPattern = `(?u)\b\w\w+\b`

// TfidfVectorizer applies a fitted vocabulary and idf weights. It is
// immutable after construction and safe for concurrent use.
type TfidfVectorizer struct {
	vocabulary   map[string]int
	idf          []float64
	dim          int
	ngramMin     int
	ngramMax     int
	lowercase    bool
	binary       bool
	sublinearTF  bool
	useIDF       bool
	norm         string
	tokenPattern *regexp.Regexp
}

func NewTfidfVectorizer(a VectorizerArtifact) (*TfidfVectorizer, error) {
	if len(a.Vocabulary) == 0 {
		return nil, errors.New("tfidf: vocabulary is empty")
	}

	v := &TfidfVectorizer{
		vocabulary:  make(map[string]int, len(a.Vocabulary)),
		dim:         len(a.Vocabulary),
		ngramMin:    1,
		ngramMax:    1,
		lowercase:   boolOr(a.Lowercase, true),
		binary:      a.Binary,
		sublinearTF: a.SublinearTF,
		useIDF:      boolOr(a.UseIDF, true),
	}

	seen := make(map[int]string, len(a.Vocabulary))
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= v.dim {
			return nil, fmt.Errorf("tfidf: term %q has column %d outside [0,%d)", term, idx, v.dim)
		}
		if other, dup := seen[idx]; dup {
			return nil, fmt.Errorf("tfidf: terms %q and %q share column %d", other, term, idx)
		}
		seen[idx] = term
		v.vocabulary[term] = idx
	}

	if v.useIDF {
		if len(a.IDF) != v.dim {
			return nil, fmt.Errorf("tfidf: idf has %d weights for %d terms", len(a.IDF), v.dim)
		}
		v.idf = append([]float64(nil), a.IDF...)
	}

	if len(a.NgramRange) > 0 {
		if len(a.NgramRange) != 2 || a.NgramRange[0] < 1 || a.NgramRange[1] < a.NgramRange[0] {
			return nil, fmt.Errorf("tfidf: invalid ngram_range %v", a.NgramRange)
		}
		v.ngramMin, v.ngramMax = a.NgramRange[0], a.NgramRange[1]
	}

	// An absent norm means l2; an explicit null means none.
	norm := "l2"
	if a.Norm != nil {
		norm = strings.ToLower(strings.TrimSpace(*a.Norm))
	}
	switch norm {
	case "l2", "l1":
		v.norm = norm
	case "", "none", "null":
		v.norm = ""
	default:
		return nil, fmt.Errorf("tfidf: unsupported norm %q", norm)
	}

	pattern, err := compileTokenPattern(a.TokenPattern)
	if err != nil {
		return nil, err
	}
	v.tokenPattern = pattern

	return v, nil
}

func (v *TfidfVectorizer) Kind() string {
	return KindTfidf
}

func (v *TfidfVectorizer) Dimension() int {
	return v.dim
}

func (v *TfidfVectorizer) Transform(texts []string) ([]domain.FeatureVector, error) {
	out := make([]domain.FeatureVector, 0, len(texts))
	for _, text := range texts {
		out = append(out, v.transformOne(text))
	}
	return out, nil
}

func (v *TfidfVectorizer) transformOne(text string) domain.FeatureVector {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, term := range v.terms(v.tokenPattern.FindAllString(text, -1)) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if v.useIDF {
			tf *= v.idf[idx]
		}
		values[i] = tf
	}
	normalize(values, v.norm)

	return domain.FeatureVector{Dim: v.dim, Indices: indices, Values: values}
}

// terms expands tokens into word n-grams for the configured range.
func (v *TfidfVectorizer) terms(tokens []string) []string {
	if v.ngramMin == 1 && v.ngramMax == 1 {
		return tokens
	}

	out := make([]string, 0, len(tokens)*(v.ngramMax-v.ngramMin+1))
	for n := v.ngramMin; n <= v.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case "l2":
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}

// compileTokenPattern accepts Python-style patterns. Go's parser rejects the
// (?u) flag, so it is dropped; \w and \b then match ASCII word characters
// only, which is all cleaned text contains.
func compileTokenPattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultTokenPattern
	}
	pattern = strings.TrimPrefix(pattern, "(?u)")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("tfidf: compile token pattern: %w", err)
	}
	return re, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
