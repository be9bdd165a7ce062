package cluster

import (
	"fmt"
	"time"

	"studypal/internal/domain"
	"studypal/internal/embedding"
)

// State is the serializable form of a Model. Generation tags the training
// run that wrote it.
type State struct {
	Generation   string                        `msgpack:"generation"`
	Fallback     bool                          `msgpack:"fallback"`
	VocabVersion string                        `msgpack:"vocab_version"`
	Terms        []string                      `msgpack:"terms"`
	DocFreq      []int                         `msgpack:"doc_freq"`
	NumDocs      int                           `msgpack:"num_docs"`
	Centroids    [][]float64                   `msgpack:"centroids"`
	Silhouette   float64                       `msgpack:"silhouette"`
	Scores       map[int]float64               `msgpack:"scores"`
	Resources    [][]domain.ResourceDescriptor `msgpack:"resources"`
	MaxResources int                           `msgpack:"max_resources"`
	TrainedAt    time.Time                     `msgpack:"trained_at"`
}

// State captures the model for persistence.
func (m *Model) State() State {
	s := State{
		Fallback:     m.fallback,
		Centroids:    make([][]float64, len(m.centroids)),
		Silhouette:   m.silhouette,
		Scores:       m.Scores(),
		Resources:    make([][]domain.ResourceDescriptor, len(m.resources)),
		MaxResources: m.maxResources,
		TrainedAt:    m.trainedAt,
	}
	for i, c := range m.centroids {
		s.Centroids[i] = clone(c)
	}
	for i := range m.resources {
		s.Resources[i] = m.ClusterResources(i)
	}
	if m.vocab != nil {
		stats := m.vocab.Stats()
		s.VocabVersion = m.vocab.Version()
		s.Terms = m.vocab.Terms()
		s.DocFreq = stats.DocFreq
		s.NumDocs = stats.NumDocs
	}
	return s
}

// FromState rebuilds a model from persisted state.
func FromState(s State) (*Model, error) {
	if len(s.Centroids) == 0 || len(s.Resources) != len(s.Centroids) {
		return nil, fmt.Errorf("restore clusterer: %d centroids, %d resource lists", len(s.Centroids), len(s.Resources))
	}
	m := &Model{
		silhouette:   s.Silhouette,
		scores:       map[int]float64{},
		resources:    make([][]domain.ResourceDescriptor, len(s.Resources)),
		fallback:     s.Fallback,
		maxResources: s.MaxResources,
		trainedAt:    s.TrainedAt,
	}
	for k, v := range s.Scores {
		m.scores[k] = v
	}
	for i, r := range s.Resources {
		m.resources[i] = append([]domain.ResourceDescriptor(nil), r...)
	}
	if m.maxResources <= 0 {
		m.maxResources = DefaultConfig().MaxResources
	}
	if s.Fallback {
		m.centroids = [][]float64{{}}
		return m, nil
	}

	vocab, err := embedding.RestoreVocabulary(s.VocabVersion, s.Terms, embedding.CorpusStats{DocFreq: s.DocFreq, NumDocs: s.NumDocs})
	if err != nil {
		return nil, fmt.Errorf("restore clusterer: %w", err)
	}
	m.vocab = vocab
	m.centroids = make([][]float64, len(s.Centroids))
	for i, c := range s.Centroids {
		if len(c) != vocab.Len() {
			return nil, fmt.Errorf("restore clusterer: centroid %d has %d dims, vocabulary has %d", i, len(c), vocab.Len())
		}
		m.centroids[i] = clone(c)
	}
	return m, nil
}
