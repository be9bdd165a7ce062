package classifier

import (
	"fmt"
	"math/rand"
	"time"

	"studypal/internal/domain"
	"studypal/internal/embedding"
)

// Config controls training.
type Config struct {
	VocabSize     int     `yaml:"vocab_size"`
	MaxIterations int     `yaml:"max_iterations"`
	C             float64 `yaml:"c"`
	LearningRate  float64 `yaml:"learning_rate"`
	TestFraction  float64 `yaml:"test_fraction"`
	Seed          int64   `yaml:"seed"`
}

// DefaultConfig returns the stock training parameters.
func DefaultConfig() Config {
	return Config{
		VocabSize:     100,
		MaxIterations: 1000,
		C:             1.0,
		LearningRate:  0.5,
		TestFraction:  0.2,
		Seed:          42,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VocabSize <= 0 {
		c.VocabSize = d.VocabSize
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.C <= 0 {
		c.C = d.C
	}
	if c.LearningRate <= 0 {
		c.LearningRate = d.LearningRate
	}
	if c.TestFraction < 0 || c.TestFraction >= 1 {
		c.TestFraction = d.TestFraction
	}
	return c
}

// Example is one labeled training text.
type Example struct {
	Tokens domain.TokenSequence
	Label  domain.Difficulty
}

// Train fits a model on examples. Both classes must be present; otherwise
// domain.ErrInsufficientTrainingData is returned.
func Train(examples []Example, cfg Config) (*Model, error) {
	cfg = cfg.withDefaults()
	if len(examples) < 2 || !hasBothClasses(examples) {
		return nil, fmt.Errorf("train classifier on %d examples: %w", len(examples), domain.ErrInsufficientTrainingData)
	}

	train, test, heldOut := split(examples, cfg)

	docs := make([]domain.TokenSequence, len(train))
	for i, ex := range train {
		docs[i] = ex.Tokens
	}
	vocab, err := embedding.BuildVocabulary(docs, cfg.VocabSize)
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w: %v", domain.ErrInsufficientTrainingData, err)
	}

	x := make([][]float64, len(train))
	y := make([]float64, len(train))
	emb := embedding.NewCountEmbedder(vocab)
	for i, ex := range train {
		x[i] = emb.Embed(ex.Tokens).Values
		y[i] = float64(ex.Label.Class())
	}
	weights, bias := fit(x, y, cfg)

	m := &Model{vocab: vocab, weights: weights, bias: bias, trainedAt: time.Now().UTC()}

	eval := test
	if !heldOut {
		eval = train
	}
	truth := make([]int, len(eval))
	pred := make([]int, len(eval))
	for i, ex := range eval {
		truth[i] = ex.Label.Class()
		pred[i] = m.Classify(ex.Tokens).Label.Class()
	}
	m.metrics = Metrics{
		Accuracy:  Accuracy(truth, pred),
		F1:        WeightedF1(truth, pred),
		TrainSize: len(train),
		TestSize:  len(test),
		HeldOut:   heldOut,
	}
	return m, nil
}

// split shuffles with the configured seed and holds out floor(n*TestFraction)
// examples. When that leaves either side empty or the training side without
// both classes, every example is used for training.
func split(examples []Example, cfg Config) (train, test []Example, heldOut bool) {
	n := len(examples)
	idx := rand.New(rand.NewSource(cfg.Seed)).Perm(n)
	shuffled := make([]Example, n)
	for i, j := range idx {
		shuffled[i] = examples[j]
	}
	nTest := int(float64(n) * cfg.TestFraction)
	if nTest == 0 || nTest >= n {
		return shuffled, nil, false
	}
	train, test = shuffled[:n-nTest], shuffled[n-nTest:]
	if !hasBothClasses(train) {
		return shuffled, nil, false
	}
	return train, test, true
}

func hasBothClasses(examples []Example) bool {
	var seen [2]bool
	for _, ex := range examples {
		seen[ex.Label.Class()] = true
	}
	return seen[0] && seen[1]
}

// fit minimizes mean log-loss plus ||w||^2/(2*C*n) by full-batch gradient
// descent. The bias is not regularized.
func fit(x [][]float64, y []float64, cfg Config) ([]float64, float64) {
	n := float64(len(x))
	dim := 0
	if len(x) > 0 {
		dim = len(x[0])
	}
	w := make([]float64, dim)
	b := 0.0
	grad := make([]float64, dim)
	reg := 1 / (cfg.C * n)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gb := 0.0
		for i, xi := range x {
			diff := sigmoid(embedding.Dot(w, xi)+b) - y[i]
			for j, v := range xi {
				if v != 0 {
					grad[j] += diff * v
				}
			}
			gb += diff
		}
		for j := range w {
			w[j] -= cfg.LearningRate * (grad[j]/n + reg*w[j])
		}
		b -= cfg.LearningRate * gb / n
	}
	return w, b
}
