package domain

import "sort"

// FeatureVector is a sparse row produced by a vectorizer. Indices are
// ascending and every index is below Dim.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Dot computes the inner product with a dense weight row.
func (v FeatureVector) Dot(weights []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		if idx < len(weights) {
			sum += v.Values[i] * weights[idx]
		}
	}
	return sum
}

type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Distribution keeps the classifier's class order.
type Distribution []ClassProbability

func (d Distribution) Max() (ClassProbability, bool) {
	if len(d) == 0 {
		return ClassProbability{}, false
	}
	best := d[0]
	for _, p := range d[1:] {
		if p.Probability > best.Probability {
			best = p
		}
	}
	return best, true
}

// Sorted returns a copy ordered by descending probability, ties by label.
func (d Distribution) Sorted() Distribution {
	out := make(Distribution, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability == out[j].Probability {
			return out[i].Label < out[j].Label
		}
		return out[i].Probability > out[j].Probability
	})
	return out
}

func (d Distribution) Top(n int) Distribution {
	sorted := d.Sorted()
	if n <= 0 || n >= len(sorted) {
		return sorted
	}
	return sorted[:n]
}

type Prediction struct {
	Label        string       `json:"label"`
	Confidence   float64      `json:"confidence"`
	Distribution Distribution `json:"distribution"`
}

type ClassificationResult struct {
	DocumentID     string       `json:"document_id"`
	Filename       string       `json:"filename"`
	MediaType      MediaType    `json:"media_type"`
	Label          string       `json:"label"`
	Confidence     float64      `json:"confidence"`
	Distribution   Distribution `json:"distribution"`
	ExtractedChars int          `json:"extracted_chars"`
	TokenCount     int          `json:"token_count"`
}

// ModelInfo describes the loaded artifacts for the About view and the CLI.
type ModelInfo struct {
	ClassifierKind string   `json:"classifier_kind"`
	VectorizerKind string   `json:"vectorizer_kind"`
	Classes        []string `json:"classes"`
	Features       int      `json:"features"`
}
