package domain

import "errors"

// Errors shared by the analysis components.
var (
	ErrInsufficientTrainingData = errors.New("insufficient training data")
	ErrModelNotLoaded           = errors.New("model not loaded")
	ErrIncompatibleModelVersion = errors.New("incompatible model version")
	ErrEmptyInput               = errors.New("empty input")
	ErrVocabularyMismatch       = errors.New("feature vector built from a different vocabulary")
)

// Document is a single educational text, optionally labeled.
type Document struct {
	Subject    string `json:"subject" yaml:"subject"`
	Topic      string `json:"topic" yaml:"topic"`
	Text       string `json:"text" yaml:"text"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// Combined joins subject, topic and text the way the clusterer sees a document.
func (d Document) Combined() string {
	return d.Subject + " " + d.Topic + " " + d.Text
}

// TokenSequence is the normalized token stream of a text.
type TokenSequence []string

// Scheme identifies how a FeatureVector was produced.
type Scheme uint8

const (
	SchemeCount Scheme = iota + 1
	SchemeTFIDF
)

func (s Scheme) String() string {
	switch s {
	case SchemeCount:
		return "count"
	case SchemeTFIDF:
		return "tfidf"
	default:
		return "unknown"
	}
}

// FeatureVector is a fixed-length numeric vector tagged with its scheme and
// the vocabulary version it was built against.
type FeatureVector struct {
	Scheme       Scheme
	VocabVersion string
	Values       []float64
}

// IsZero reports whether every component is zero.
func (v FeatureVector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// ResourceDescriptor is a static study resource.
type ResourceDescriptor struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Type string `json:"type" yaml:"type"`
}

// SentenceScore is one scored sentence of a summarized document.
type SentenceScore struct {
	Text     string  `json:"text"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// Summary is the output of an extractive summarization call.
type Summary struct {
	Summary          string          `json:"summary"`
	CompressionRatio float64         `json:"compression_ratio"`
	Sentences        []SentenceScore `json:"sentences,omitempty"`
}

// Classification is a difficulty prediction.
type Classification struct {
	Label      Difficulty `json:"label"`
	Confidence float64    `json:"confidence"`
}

// TrainingReport summarizes a training run over both models.
type TrainingReport struct {
	Accuracy   float64 `json:"accuracy"`
	F1         float64 `json:"f1"`
	Silhouette float64 `json:"silhouette"`
	Clusters   int     `json:"clusters"`
	Documents  int     `json:"documents"`
}

// Normalizer turns raw text into a canonical token sequence.
type Normalizer interface {
	Normalize(text string) TokenSequence
}

// Embedder converts a token sequence into a feature vector over a frozen
// vocabulary.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(tokens TokenSequence) FeatureVector
}

// Summarizer produces an extractive summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) Summary
}
