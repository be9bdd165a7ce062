package embedding

import (
	"math"

	"studypal/internal/domain"
)

var (
	_ domain.Embedder = (*CountEmbedder)(nil)
	_ domain.Embedder = (*TFIDFEmbedder)(nil)
)

// CountVector returns the bag-of-words vector of tokens over vocab.
// Out-of-vocabulary tokens are ignored.
func CountVector(tokens domain.TokenSequence, vocab *Vocabulary) domain.FeatureVector {
	vec := make([]float64, vocab.Len())
	for _, tok := range tokens {
		if idx, ok := vocab.Index(tok); ok {
			vec[idx]++
		}
	}
	return domain.FeatureVector{Scheme: domain.SchemeCount, VocabVersion: vocab.Version(), Values: vec}
}

// TFIDFVector returns the L2-normalized TF-IDF vector of tokens over vocab.
// Term frequency is relative to the in-vocabulary token count; a sequence
// with no vocabulary overlap yields the zero vector.
func TFIDFVector(tokens domain.TokenSequence, vocab *Vocabulary) domain.FeatureVector {
	vec := make([]float64, vocab.Len())
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := vocab.Index(tok); ok {
			tf[idx]++
			total++
		}
	}
	fv := domain.FeatureVector{Scheme: domain.SchemeTFIDF, VocabVersion: vocab.Version(), Values: vec}
	if total == 0 {
		return fv
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * vocab.IDF(idx)
	}
	L2Normalize(vec)
	return fv
}

// CountEmbedder binds CountVector to a vocabulary.
type CountEmbedder struct{ vocab *Vocabulary }

// NewCountEmbedder creates a bag-of-words embedder over vocab.
func NewCountEmbedder(vocab *Vocabulary) *CountEmbedder { return &CountEmbedder{vocab: vocab} }

func (e *CountEmbedder) Name() string   { return "count" }
func (e *CountEmbedder) Dimension() int { return e.vocab.Len() }

func (e *CountEmbedder) Embed(tokens domain.TokenSequence) domain.FeatureVector {
	return CountVector(tokens, e.vocab)
}

// TFIDFEmbedder binds TFIDFVector to a vocabulary.
type TFIDFEmbedder struct{ vocab *Vocabulary }

// NewTFIDFEmbedder creates a TF-IDF embedder over vocab.
func NewTFIDFEmbedder(vocab *Vocabulary) *TFIDFEmbedder { return &TFIDFEmbedder{vocab: vocab} }

func (e *TFIDFEmbedder) Name() string   { return "tfidf" }
func (e *TFIDFEmbedder) Dimension() int { return e.vocab.Len() }

func (e *TFIDFEmbedder) Embed(tokens domain.TokenSequence) domain.FeatureVector {
	return TFIDFVector(tokens, e.vocab)
}

// L2Normalize scales vec to unit length in place. Zero vectors are left as is.
func L2Normalize(vec []float64) {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
}
