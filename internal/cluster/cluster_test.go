package cluster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studypal/internal/domain"
	"studypal/internal/embedding"
	"studypal/internal/resources"
	"studypal/internal/textnorm"
)

func items(n *textnorm.Normalizer, rows [][2]string) []Item {
	out := make([]Item, len(rows))
	for i, r := range rows {
		out[i] = Item{Tokens: n.Normalize(r[1]), Subject: domain.ParseSubject(r[0])}
	}
	return out
}

var topicRows = [][2]string{
	{"Mathematics", "algebra equation variable solve equation algebra"},
	{"Mathematics", "equation variable algebra linear equation"},
	{"Mathematics", "algebra variable equation quadratic"},
	{"History", "empire war revolution king empire"},
	{"History", "revolution war empire treaty"},
	{"History", "king empire war revolution dynasty"},
	{"Science", "cell biology organism energy cell"},
	{"Science", "organism cell energy photosynthesis biology"},
}

func TestTrainSeparatesTopics(t *testing.T) {
	n := textnorm.New(0)
	data := items(n, topicRows)
	m, err := Train(data, resources.Default(), DefaultConfig())
	require.NoError(t, err)

	assert.False(t, m.IsFallback())
	assert.GreaterOrEqual(t, m.K(), 2)
	assert.LessOrEqual(t, m.K(), 7)
	assert.Len(t, m.Scores(), 6)
	assert.Equal(t, m.Scores()[m.K()], m.Silhouette())
	for k, s := range m.Scores() {
		assert.LessOrEqual(t, s, m.Silhouette(), "k=%d beats chosen k", k)
	}

	alg := m.AssignCluster(n.Normalize("solving an algebra equation"))
	war := m.AssignCluster(n.Normalize("the war of the empire"))
	assert.NotEqual(t, alg, war)
	assert.Equal(t, alg, m.AssignCluster(data[0].Tokens))
}

func TestAssignClusterInRangeAndDeterministic(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(items(n, topicRows), resources.Default(), DefaultConfig())
	require.NoError(t, err)

	for _, in := range []string{"", "unknown words only", "cell energy", "algebra war"} {
		id := m.AssignCluster(n.Normalize(in))
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, m.K())
		assert.Equal(t, id, m.AssignCluster(n.Normalize(in)))
	}
}

func TestAssignVector(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(items(n, topicRows), resources.Default(), DefaultConfig())
	require.NoError(t, err)

	for _, in := range []string{"", "cell energy", "the war of the empire"} {
		tokens := n.Normalize(in)
		id, err := m.AssignVector(embedding.TFIDFVector(tokens, m.Vocabulary()))
		require.NoError(t, err)
		assert.Equal(t, m.AssignCluster(tokens), id, in)
	}

	_, err = m.AssignVector(embedding.CountVector(n.Normalize("cell"), m.Vocabulary()))
	assert.ErrorIs(t, err, domain.ErrVocabularyMismatch)

	other, err := embedding.BuildVocabulary([]domain.TokenSequence{{"cell"}}, 0)
	require.NoError(t, err)
	_, err = m.AssignVector(embedding.TFIDFVector(domain.TokenSequence{"cell"}, other))
	assert.ErrorIs(t, err, domain.ErrVocabularyMismatch)

	id, err := Fallback(resources.Default(), 5).AssignVector(domain.FeatureVector{Scheme: domain.SchemeCount})
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestTrainIsReproducible(t *testing.T) {
	n := textnorm.New(0)
	a, err := Train(items(n, topicRows), resources.Default(), DefaultConfig())
	require.NoError(t, err)
	b, err := Train(items(n, topicRows), resources.Default(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, a.K(), b.K())
	assert.Equal(t, a.Scores(), b.Scores())
	assert.Equal(t, a.State().Centroids, b.State().Centroids)
}

func TestSingleDocumentFallback(t *testing.T) {
	n := textnorm.New(0)
	cat := resources.Default()
	m, err := Train(items(n, topicRows[:1]), cat, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, m.IsFallback())
	assert.Equal(t, 1, m.K())
	for _, in := range []string{"algebra", "war", "", "zzz"} {
		assert.Equal(t, 0, m.AssignCluster(n.Normalize(in)))
	}
	assert.Equal(t, cat.All(), m.ClusterResources(0))
}

func TestTwoDocuments(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(items(n, topicRows[2:4]), resources.Default(), DefaultConfig())
	require.NoError(t, err)

	assert.False(t, m.IsFallback())
	assert.Equal(t, 2, m.K())
	assert.Equal(t, 0.0, m.Silhouette())
	assert.NotEqual(t,
		m.AssignCluster(n.Normalize("algebra variable")),
		m.AssignCluster(n.Normalize("empire war")))
}

func TestTrainEmpty(t *testing.T) {
	_, err := Train(nil, resources.Default(), DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrInsufficientTrainingData)
}

func TestSuggestResources(t *testing.T) {
	n := textnorm.New(0)
	cat := resources.Default()
	m, err := Train(items(n, topicRows), cat, DefaultConfig())
	require.NoError(t, err)

	got := m.SuggestResources(cat, domain.SubjectMathematics, n.Normalize("the war of the empire"))
	assert.LessOrEqual(t, len(got), 5)
	assert.Equal(t, cat.ForSubject(domain.SubjectMathematics), got[:4])

	urls := map[string]bool{}
	for _, r := range got {
		assert.False(t, urls[r.URL])
		urls[r.URL] = true
	}

	same := m.SuggestResources(cat, domain.SubjectMathematics, n.Normalize("algebra equation"))
	assert.Equal(t, cat.ForSubject(domain.SubjectMathematics), same)
}

func TestStateRoundTrip(t *testing.T) {
	n := textnorm.New(0)
	m, err := Train(items(n, topicRows), resources.Default(), DefaultConfig())
	require.NoError(t, err)

	restored, err := FromState(m.State())
	require.NoError(t, err)
	for _, in := range []string{"algebra", "empire", "cell"} {
		assert.Equal(t, m.AssignCluster(n.Normalize(in)), restored.AssignCluster(n.Normalize(in)))
	}

	fb, err := FromState(Fallback(resources.Default(), 5).State())
	require.NoError(t, err)
	assert.True(t, fb.IsFallback())
	assert.Equal(t, 0, fb.AssignCluster(n.Normalize("anything")))

	_, err = FromState(State{})
	assert.Error(t, err)
}

func TestSilhouette(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 0}, {10, 1}}
	good := silhouette(points, []int{0, 0, 1, 1}, 2)
	bad := silhouette(points, []int{0, 1, 0, 1}, 2)
	assert.Greater(t, good, 0.8)
	assert.Less(t, bad, 0.0)
	assert.Equal(t, 0.0, silhouette(points, []int{0, 0, 0, 0}, 2))
}

func TestKMeansFindsObviousClusters(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 0}, {10, 1}}
	res := kmeans(points, 2, 100, 5, rand.New(rand.NewSource(1)))
	assert.Equal(t, res.labels[0], res.labels[1])
	assert.Equal(t, res.labels[2], res.labels[3])
	assert.NotEqual(t, res.labels[0], res.labels[2])
	assert.InDelta(t, 1.0, res.inertia, 1e-9)
}
