package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studypal/internal/domain"
	"studypal/internal/embedding"
	"studypal/internal/textnorm"
)

func examplesFrom(n *textnorm.Normalizer, rows [][2]string) []Example {
	out := make([]Example, len(rows))
	for i, r := range rows {
		out[i] = Example{Tokens: n.Normalize(r[0]), Label: domain.Difficulty(r[1])}
	}
	return out
}

func TestTrainTwoExamplesEndToEnd(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(examplesFrom(n, [][2]string{
		{"easy text about addition", "easy"},
		{"advanced quantum field theory derivation", "medium"},
	}), DefaultConfig())
	require.NoError(t, err)

	got := m.ClassifyText(n, "simple addition problem")
	assert.Equal(t, domain.Easy, got.Label)
	assert.Greater(t, got.Confidence, 0.5)
	assert.LessOrEqual(t, got.Confidence, 1.0)

	assert.False(t, m.Metrics().HeldOut)
	assert.Equal(t, 2, m.Metrics().TrainSize)
	assert.Equal(t, 1.0, m.Metrics().Accuracy)
}

func TestTrainInsufficientData(t *testing.T) {
	n := textnorm.New(0)

	_, err := Train(nil, DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrInsufficientTrainingData)

	_, err = Train(examplesFrom(n, [][2]string{{"addition", "easy"}}), DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrInsufficientTrainingData)

	_, err = Train(examplesFrom(n, [][2]string{
		{"addition of numbers", "easy"},
		{"shapes and angles", "easy"},
		{"counting apples", "easy"},
	}), DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrInsufficientTrainingData)

	_, err = Train(examplesFrom(n, [][2]string{{"the and of", "easy"}, {"is a it", "medium"}}), DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrInsufficientTrainingData)
}

func TestTrainHeldOutSplit(t *testing.T) {
	n := textnorm.New(0)
	rows := [][2]string{
		{"adding small numbers together", "easy"},
		{"counting apples in a basket", "easy"},
		{"simple shapes like circles and squares", "easy"},
		{"the colors of the rainbow", "easy"},
		{"plants need water and sunlight", "easy"},
		{"differential equations and eigenvalue analysis", "medium"},
		{"quantum entanglement in field theory", "medium"},
		{"thermodynamic entropy derivation", "medium"},
		{"integration by parts of trigonometric functions", "medium"},
		{"stoichiometry of redox reactions", "hard"},
	}
	m, err := Train(examplesFrom(n, rows), DefaultConfig())
	require.NoError(t, err)

	metrics := m.Metrics()
	assert.True(t, metrics.HeldOut)
	assert.Equal(t, 2, metrics.TestSize)
	assert.Equal(t, 8, metrics.TrainSize)
	assert.GreaterOrEqual(t, metrics.Accuracy, 0.0)
	assert.LessOrEqual(t, metrics.Accuracy, 1.0)
	assert.GreaterOrEqual(t, metrics.F1, 0.0)
	assert.LessOrEqual(t, metrics.F1, 1.0)
}

func TestClassifyIsDeterministicAndBounded(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(examplesFrom(n, [][2]string{
		{"easy text about addition", "easy"},
		{"advanced quantum field theory derivation", "medium"},
	}), DefaultConfig())
	require.NoError(t, err)

	inputs := []string{"quantum derivation", "addition", "", "completely unrelated words", "field theory addition"}
	for _, in := range inputs {
		a := m.ClassifyText(n, in)
		b := m.ClassifyText(n, in)
		assert.Equal(t, a, b)
		assert.Contains(t, []domain.Difficulty{domain.Easy, domain.Medium}, a.Label)
		assert.GreaterOrEqual(t, a.Confidence, 0.0)
		assert.LessOrEqual(t, a.Confidence, 1.0)
	}

	assert.Equal(t, domain.Medium, m.ClassifyText(n, "quantum derivation").Label)
}

func TestClassifyZeroOverlapUsesBias(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(examplesFrom(n, [][2]string{
		{"addition", "easy"},
		{"subtraction", "easy"},
		{"counting", "easy"},
		{"quantum", "medium"},
	}), DefaultConfig())
	require.NoError(t, err)

	p := m.Predict(n.Normalize("zebra giraffe"))
	assert.InDelta(t, 1.0, p.Easy+p.Medium, 1e-12)
	assert.Equal(t, m.Classify(nil), m.Classify(n.Normalize("zebra giraffe")))
}

func TestClassifyVectorRejectsForeignVocabulary(t *testing.T) {
	n := textnorm.New(0)
	train := examplesFrom(n, [][2]string{
		{"easy text about addition", "easy"},
		{"advanced quantum field theory derivation", "medium"},
	})
	a, err := Train(train, DefaultConfig())
	require.NoError(t, err)
	b, err := Train(train, DefaultConfig())
	require.NoError(t, err)

	v := embedding.CountVector(n.Normalize("addition"), a.Vocabulary())
	_, err = a.ClassifyVector(v)
	assert.NoError(t, err)
	_, err = b.ClassifyVector(v)
	assert.ErrorIs(t, err, domain.ErrVocabularyMismatch)
}

func TestStateRoundTripPreservesPredictions(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(examplesFrom(n, [][2]string{
		{"easy text about addition", "easy"},
		{"advanced quantum field theory derivation", "medium"},
	}), DefaultConfig())
	require.NoError(t, err)

	restored, err := FromState(m.State())
	require.NoError(t, err)
	for _, in := range []string{"simple addition problem", "quantum theory"} {
		assert.Equal(t, m.ClassifyText(n, in), restored.ClassifyText(n, in))
	}
	assert.Equal(t, m.Metrics(), restored.Metrics())

	s := m.State()
	s.Weights = s.Weights[:1]
	_, err = FromState(s)
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	truth := []int{0, 0, 1, 1}
	pred := []int{0, 1, 1, 1}
	assert.Equal(t, 0.75, Accuracy(truth, pred))
	// class 0: p=1 r=.5 f1=2/3; class 1: p=2/3 r=1 f1=.8
	assert.InDelta(t, (2.0/3.0*2+0.8*2)/4, WeightedF1(truth, pred), 1e-12)
	assert.Equal(t, 0.0, Accuracy(nil, nil))
	assert.Equal(t, 0.0, WeightedF1(nil, nil))
}
