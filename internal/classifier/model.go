// Package classifier predicts the difficulty of an educational text with a
// binary logistic regression over bag-of-words counts.
package classifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"studypal/internal/domain"
	"studypal/internal/embedding"
)

// Metrics describe how a model performed on its evaluation split.
// HeldOut is false when the corpus was too small to split and the figures
// are resubstitution scores on the training data.
type Metrics struct {
	Accuracy  float64 `json:"accuracy" msgpack:"accuracy"`
	F1        float64 `json:"f1" msgpack:"f1"`
	TrainSize int     `json:"train_size" msgpack:"train_size"`
	TestSize  int     `json:"test_size" msgpack:"test_size"`
	HeldOut   bool    `json:"held_out" msgpack:"held_out"`
}

// Model is a trained, immutable difficulty classifier.
type Model struct {
	vocab     *embedding.Vocabulary
	weights   []float64
	bias      float64
	metrics   Metrics
	trainedAt time.Time
}

// Probabilities of the two difficulty classes for one input.
type Probabilities struct {
	Easy   float64 `json:"easy"`
	Medium float64 `json:"medium"`
}

// Vocabulary returns the model's frozen vocabulary.
func (m *Model) Vocabulary() *embedding.Vocabulary { return m.vocab }

// Metrics returns the evaluation metrics recorded at training time.
func (m *Model) Metrics() Metrics { return m.metrics }

// TrainedAt returns when the model was fitted.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Predict returns the class probabilities for tokens. A sequence sharing no
// term with the vocabulary is scored from the bias alone.
func (m *Model) Predict(tokens domain.TokenSequence) Probabilities {
	return m.predictValues(embedding.CountVector(tokens, m.vocab).Values)
}

// Classify returns the most probable label and its probability.
func (m *Model) Classify(tokens domain.TokenSequence) domain.Classification {
	return m.Predict(tokens).classification()
}

// ClassifyVector classifies a precomputed count vector. Vectors built
// against another vocabulary are rejected.
func (m *Model) ClassifyVector(v domain.FeatureVector) (domain.Classification, error) {
	if v.Scheme != domain.SchemeCount {
		return domain.Classification{}, fmt.Errorf("%w: classifier expects count vectors, got %s", domain.ErrVocabularyMismatch, v.Scheme)
	}
	if err := embedding.CheckVersion(v, m.vocab); err != nil {
		return domain.Classification{}, err
	}
	return m.predictValues(v.Values).classification(), nil
}

// ClassifyText normalizes text and classifies it.
func (m *Model) ClassifyText(n domain.Normalizer, text string) domain.Classification {
	if strings.TrimSpace(text) == "" {
		return m.Classify(nil)
	}
	return m.Classify(n.Normalize(text))
}

func (m *Model) predictValues(x []float64) Probabilities {
	p := sigmoid(embedding.Dot(m.weights, x) + m.bias)
	return Probabilities{Easy: 1 - p, Medium: p}
}

func (p Probabilities) classification() domain.Classification {
	if p.Medium > p.Easy {
		return domain.Classification{Label: domain.Medium, Confidence: clamp01(p.Medium)}
	}
	return domain.Classification{Label: domain.Easy, Confidence: clamp01(p.Easy)}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0.5
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// State is the serializable form of a Model. Generation tags the training
// run that wrote it and is not part of the model.
type State struct {
	Generation   string    `msgpack:"generation"`
	VocabVersion string    `msgpack:"vocab_version"`
	Terms        []string  `msgpack:"terms"`
	DocFreq      []int     `msgpack:"doc_freq"`
	NumDocs      int       `msgpack:"num_docs"`
	Weights      []float64 `msgpack:"weights"`
	Bias         float64   `msgpack:"bias"`
	Metrics      Metrics   `msgpack:"metrics"`
	TrainedAt    time.Time `msgpack:"trained_at"`
}

// State captures the model for persistence.
func (m *Model) State() State {
	stats := m.vocab.Stats()
	return State{
		VocabVersion: m.vocab.Version(),
		Terms:        m.vocab.Terms(),
		DocFreq:      stats.DocFreq,
		NumDocs:      stats.NumDocs,
		Weights:      append([]float64(nil), m.weights...),
		Bias:         m.bias,
		Metrics:      m.metrics,
		TrainedAt:    m.trainedAt,
	}
}

// FromState rebuilds a model from persisted state.
func FromState(s State) (*Model, error) {
	vocab, err := embedding.RestoreVocabulary(s.VocabVersion, s.Terms, embedding.CorpusStats{DocFreq: s.DocFreq, NumDocs: s.NumDocs})
	if err != nil {
		return nil, fmt.Errorf("restore classifier: %w", err)
	}
	if len(s.Weights) != vocab.Len() {
		return nil, fmt.Errorf("restore classifier: %d weights for %d terms", len(s.Weights), vocab.Len())
	}
	return &Model{
		vocab:     vocab,
		weights:   append([]float64(nil), s.Weights...),
		bias:      s.Bias,
		metrics:   s.Metrics,
		trainedAt: s.TrainedAt,
	}, nil
}
