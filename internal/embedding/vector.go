package embedding

import (
	"fmt"
	"math"

	"studypal/internal/domain"
)

// CheckVersion rejects vectors built from a vocabulary other than vocab.
func CheckVersion(v domain.FeatureVector, vocab *Vocabulary) error {
	if v.VocabVersion != vocab.Version() || len(v.Values) != vocab.Len() {
		return fmt.Errorf("%w: vector %s/%d, vocabulary %s/%d",
			domain.ErrVocabularyMismatch, v.VocabVersion, len(v.Values), vocab.Version(), vocab.Len())
	}
	return nil
}

// Dot is the inner product over the shorter length.
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredDistance is the squared Euclidean distance between equal-length vectors.
func SquaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Distance is the Euclidean distance between equal-length vectors.
func Distance(a, b []float64) float64 {
	return math.Sqrt(SquaredDistance(a, b))
}
