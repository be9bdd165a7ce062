package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studypal/internal/domain"
)

func corpus() []domain.TokenSequence {
	return []domain.TokenSequence{
		{"cell", "biology", "cell", "energy"},
		{"energy", "physics", "motion"},
		{"algebra", "equation", "cell"},
	}
}

func TestBuildVocabularyOrdering(t *testing.T) {
	vocab, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)

	// cell:3, energy:2, then count-1 terms lexicographically.
	assert.Equal(t, []string{"cell", "energy", "algebra", "biology", "equation", "motion", "physics"}, vocab.Terms())
	assert.NotEmpty(t, vocab.Version())

	stats := vocab.Stats()
	assert.Equal(t, 3, stats.NumDocs)
	assert.Equal(t, []int{2, 2, 1, 1, 1, 1, 1}, stats.DocFreq)
}

func TestBuildVocabularyCapsTerms(t *testing.T) {
	vocab, err := BuildVocabulary(corpus(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"cell", "energy", "algebra"}, vocab.Terms())
	assert.Equal(t, 3, vocab.Len())
}

func TestBuildVocabularyEmpty(t *testing.T) {
	_, err := BuildVocabulary(nil, 10)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, err = BuildVocabulary([]domain.TokenSequence{{}, {}}, 10)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestBuildVocabularyFreshVersion(t *testing.T) {
	a, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)
	b, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), b.Version())
	assert.Equal(t, a.Terms(), b.Terms())
}

func TestRestoreVocabulary(t *testing.T) {
	orig, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)

	restored, err := RestoreVocabulary(orig.Version(), orig.Terms(), orig.Stats())
	require.NoError(t, err)
	assert.Equal(t, orig.Version(), restored.Version())
	assert.Equal(t, orig.Terms(), restored.Terms())

	_, err = RestoreVocabulary("", orig.Terms(), orig.Stats())
	assert.Error(t, err)
	_, err = RestoreVocabulary("v", []string{"a", "a"}, CorpusStats{DocFreq: []int{1, 1}, NumDocs: 1})
	assert.Error(t, err)
	_, err = RestoreVocabulary("v", []string{"a"}, CorpusStats{NumDocs: 1})
	assert.Error(t, err)
}

func TestCountVector(t *testing.T) {
	vocab, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)

	v := CountVector(domain.TokenSequence{"cell", "cell", "unknown", "motion"}, vocab)
	assert.Equal(t, domain.SchemeCount, v.Scheme)
	assert.Equal(t, vocab.Version(), v.VocabVersion)
	assert.Equal(t, []float64{2, 0, 0, 0, 0, 1, 0}, v.Values)

	empty := CountVector(domain.TokenSequence{"nothing", "known"}, vocab)
	assert.True(t, empty.IsZero())
	assert.Len(t, empty.Values, vocab.Len())
}

func TestOverlap(t *testing.T) {
	vocab, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, vocab.Overlap(domain.TokenSequence{"cell", "cell", "unknown", "motion"}))
	assert.Zero(t, vocab.Overlap(domain.TokenSequence{"nothing", "known"}))
	assert.Zero(t, vocab.Overlap(nil))
}

func TestTFIDFVector(t *testing.T) {
	vocab, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)

	v := TFIDFVector(domain.TokenSequence{"cell", "motion", "unknown"}, vocab)
	assert.Equal(t, domain.SchemeTFIDF, v.Scheme)

	norm := 0.0
	for _, x := range v.Values {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)

	// motion is rarer than cell, so it weighs more at equal term frequency.
	cell, _ := vocab.Index("cell")
	motion, _ := vocab.Index("motion")
	assert.Greater(t, v.Values[motion], v.Values[cell])

	zero := TFIDFVector(domain.TokenSequence{"unknown"}, vocab)
	assert.True(t, zero.IsZero())
}

func TestIDF(t *testing.T) {
	vocab, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)
	cell, _ := vocab.Index("cell")
	assert.InDelta(t, math.Log(4.0/3.0)+1, vocab.IDF(cell), 1e-12)
}

func TestEmbedders(t *testing.T) {
	vocab, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)

	var e domain.Embedder = NewTFIDFEmbedder(vocab)
	assert.Equal(t, "tfidf", e.Name())
	assert.Equal(t, vocab.Len(), e.Dimension())
	assert.Equal(t, TFIDFVector(domain.TokenSequence{"cell"}, vocab), e.Embed(domain.TokenSequence{"cell"}))

	e = NewCountEmbedder(vocab)
	assert.Equal(t, "count", e.Name())
	assert.Equal(t, CountVector(domain.TokenSequence{"cell"}, vocab), e.Embed(domain.TokenSequence{"cell"}))
}

func TestCheckVersion(t *testing.T) {
	a, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)
	b, err := BuildVocabulary(corpus(), 0)
	require.NoError(t, err)

	v := CountVector(domain.TokenSequence{"cell"}, a)
	assert.NoError(t, CheckVersion(v, a))
	assert.ErrorIs(t, CheckVersion(v, b), domain.ErrVocabularyMismatch)
}

func TestVectorMath(t *testing.T) {
	assert.Equal(t, 11.0, Dot([]float64{1, 2}, []float64{3, 4, 5}))
	assert.Equal(t, 25.0, SquaredDistance([]float64{0, 0}, []float64{3, 4}))
	assert.Equal(t, 5.0, Distance([]float64{0, 0}, []float64{3, 4}))

	v := []float64{0, 0}
	L2Normalize(v)
	assert.Equal(t, []float64{0, 0}, v)
}
