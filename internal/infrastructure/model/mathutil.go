package model

import (
	"fmt"
	"math"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// softmax is shifted by the max score to stay finite.
func softmax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	best := scores[argmax(scores)]
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - best)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// argmax returns the first index of the largest value.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

func distribution(classes []string, probs []float64) domain.Distribution {
	out := make(domain.Distribution, len(classes))
	for i, label := range classes {
		out[i] = domain.ClassProbability{Label: label, Probability: probs[i]}
	}
	return out
}

func checkVector(v domain.FeatureVector, features int) error {
	if v.Dim != features {
		return fmt.Errorf("feature vector has dimension %d, model expects %d", v.Dim, features)
	}
	if len(v.Indices) != len(v.Values) {
		return fmt.Errorf("feature vector has %d indices and %d values", len(v.Indices), len(v.Values))
	}
	return nil
}

func checkMatrix(name string, rows [][]float64) (int, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, fmt.Errorf("%s is empty", name)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return 0, fmt.Errorf("%s row %d has %d columns, want %d", name, i, len(row), width)
		}
	}
	return width, nil
}
