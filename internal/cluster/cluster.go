// Package cluster groups study materials into topics with k-means over
// TF-IDF vectors and maps each topic to study resources.
package cluster

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"studypal/internal/domain"
	"studypal/internal/embedding"
	"studypal/internal/resources"
)

// Config controls training.
type Config struct {
	VocabSize     int   `yaml:"vocab_size"`
	KMin          int   `yaml:"k_min"`
	KMax          int   `yaml:"k_max"`
	MaxIterations int   `yaml:"max_iterations"`
	NInit         int   `yaml:"n_init"`
	Seed          int64 `yaml:"seed"`
	MaxResources  int   `yaml:"max_resources"`
}

// DefaultConfig returns the stock training parameters.
func DefaultConfig() Config {
	return Config{
		VocabSize:     50,
		KMin:          2,
		KMax:          8,
		MaxIterations: 300,
		NInit:         10,
		Seed:          42,
		MaxResources:  5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.VocabSize <= 0 {
		c.VocabSize = d.VocabSize
	}
	if c.KMin < 2 {
		c.KMin = d.KMin
	}
	if c.KMax < c.KMin {
		c.KMax = c.KMin
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.NInit <= 0 {
		c.NInit = d.NInit
	}
	if c.MaxResources <= 0 {
		c.MaxResources = d.MaxResources
	}
	return c
}

// ResourceSource supplies subject resources for cluster mapping and
// suggestions. *resources.Catalog satisfies it.
type ResourceSource interface {
	ForSubject(s domain.Subject) []domain.ResourceDescriptor
	All() []domain.ResourceDescriptor
}

var _ ResourceSource = (*resources.Catalog)(nil)

// Item is one training document: its tokens (subject, topic and text
// combined) and its subject.
type Item struct {
	Tokens  domain.TokenSequence
	Subject domain.Subject
}

// Model is a trained, immutable topic clusterer.
type Model struct {
	vocab        *embedding.Vocabulary
	centroids    [][]float64
	silhouette   float64
	scores       map[int]float64
	resources    [][]domain.ResourceDescriptor
	fallback     bool
	maxResources int
	trainedAt    time.Time
}

// Fallback returns the single-cluster model used when there is too little
// data to cluster. Every input maps to cluster 0, which carries every
// catalog resource.
func Fallback(src ResourceSource, maxResources int) *Model {
	if maxResources <= 0 {
		maxResources = DefaultConfig().MaxResources
	}
	return &Model{
		centroids:    [][]float64{{}},
		scores:       map[int]float64{},
		resources:    [][]domain.ResourceDescriptor{src.All()},
		fallback:     true,
		maxResources: maxResources,
		trainedAt:    time.Now().UTC(),
	}
}

// Train clusters items, choosing k in [KMin, min(KMax, n-1)] by the highest
// silhouette (ties go to the smaller k). Fewer items than KMin produce the
// fallback model; exactly two items produce k=2 with silhouette 0.
func Train(items []Item, src ResourceSource, cfg Config) (*Model, error) {
	cfg = cfg.withDefaults()
	if len(items) == 0 {
		return nil, fmt.Errorf("train clusterer: %w", domain.ErrInsufficientTrainingData)
	}
	if len(items) < cfg.KMin {
		return Fallback(src, cfg.MaxResources), nil
	}

	docs := make([]domain.TokenSequence, len(items))
	for i, it := range items {
		docs[i] = it.Tokens
	}
	vocab, err := embedding.BuildVocabulary(docs, cfg.VocabSize)
	if err != nil {
		return nil, fmt.Errorf("train clusterer: %w: %v", domain.ErrInsufficientTrainingData, err)
	}
	points := make([][]float64, len(items))
	emb := embedding.NewTFIDFEmbedder(vocab)
	for i, doc := range docs {
		points[i] = emb.Embed(doc).Values
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	kMax := cfg.KMax
	if kMax > len(items)-1 {
		kMax = len(items) - 1
	}

	scores := make(map[int]float64)
	var best kmeansResult
	bestK, bestScore := 0, 0.0
	if kMax < cfg.KMin {
		// Two documents: each is its own cluster.
		best = kmeans(points, cfg.KMin, cfg.MaxIterations, cfg.NInit, rng)
		bestK = cfg.KMin
		scores[bestK] = 0
	} else {
		for k := cfg.KMin; k <= kMax; k++ {
			res := kmeans(points, k, cfg.MaxIterations, cfg.NInit, rng)
			s := silhouette(points, res.labels, k)
			scores[k] = s
			if bestK == 0 || s > bestScore {
				best, bestK, bestScore = res, k, s
			}
		}
	}

	return &Model{
		vocab:        vocab,
		centroids:    best.centroids,
		silhouette:   bestScore,
		scores:       scores,
		resources:    clusterResources(items, best.labels, bestK, src),
		maxResources: cfg.MaxResources,
		trainedAt:    time.Now().UTC(),
	}, nil
}

// clusterResources maps each cluster to the resources of its majority
// subject. Ties go to the lower Subject value; empty clusters get the
// general list.
func clusterResources(items []Item, labels []int, k int, src ResourceSource) [][]domain.ResourceDescriptor {
	counts := make([]map[domain.Subject]int, k)
	for c := range counts {
		counts[c] = make(map[domain.Subject]int)
	}
	for i, l := range labels {
		counts[l][items[i].Subject]++
	}
	out := make([][]domain.ResourceDescriptor, k)
	for c, bySubject := range counts {
		subjects := make([]domain.Subject, 0, len(bySubject))
		for s := range bySubject {
			subjects = append(subjects, s)
		}
		sort.Slice(subjects, func(i, j int) bool {
			if bySubject[subjects[i]] != bySubject[subjects[j]] {
				return bySubject[subjects[i]] > bySubject[subjects[j]]
			}
			return subjects[i] < subjects[j]
		})
		majority := domain.SubjectOther
		if len(subjects) > 0 {
			majority = subjects[0]
		}
		out[c] = src.ForSubject(majority)
	}
	return out
}

// K returns the number of clusters.
func (m *Model) K() int { return len(m.centroids) }

// Silhouette returns the score of the chosen k.
func (m *Model) Silhouette() float64 { return m.silhouette }

// Scores returns the silhouette recorded for every candidate k.
func (m *Model) Scores() map[int]float64 {
	out := make(map[int]float64, len(m.scores))
	for k, s := range m.scores {
		out[k] = s
	}
	return out
}

// IsFallback reports whether this is the single-cluster fallback model.
func (m *Model) IsFallback() bool { return m.fallback }

// TrainedAt returns when the model was fitted.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// Vocabulary returns the model's vocabulary; nil for the fallback model.
func (m *Model) Vocabulary() *embedding.Vocabulary { return m.vocab }

// AssignCluster returns the id of the nearest centroid, ties to the lowest id.
func (m *Model) AssignCluster(tokens domain.TokenSequence) int {
	if m.fallback || m.vocab == nil {
		return 0
	}
	return nearest(embedding.TFIDFVector(tokens, m.vocab).Values, m.centroids)
}

// AssignVector assigns a precomputed TF-IDF vector.
func (m *Model) AssignVector(v domain.FeatureVector) (int, error) {
	if m.fallback || m.vocab == nil {
		return 0, nil
	}
	if v.Scheme != domain.SchemeTFIDF {
		return 0, fmt.Errorf("%w: clusterer expects tfidf vectors, got %s", domain.ErrVocabularyMismatch, v.Scheme)
	}
	if err := embedding.CheckVersion(v, m.vocab); err != nil {
		return 0, err
	}
	return nearest(v.Values, m.centroids), nil
}

// ClusterResources returns the resources mapped to cluster id.
func (m *Model) ClusterResources(id int) []domain.ResourceDescriptor {
	if id < 0 || id >= len(m.resources) {
		return nil
	}
	return append([]domain.ResourceDescriptor(nil), m.resources[id]...)
}

// SuggestResources combines the subject's catalog entries with those of the
// cluster tokens fall into, deduplicated by URL and capped.
func (m *Model) SuggestResources(src ResourceSource, subject domain.Subject, tokens domain.TokenSequence) []domain.ResourceDescriptor {
	return resources.Merge(m.maxResources, src.ForSubject(subject), m.ClusterResources(m.AssignCluster(tokens)))
}
