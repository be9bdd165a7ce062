// Package registry owns the currently served models. Readers take an
// immutable Snapshot; training builds a new one and swaps it in only after
// both models are persisted.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"studypal/internal/classifier"
	"studypal/internal/cluster"
	"studypal/internal/domain"
	"studypal/internal/modelstore"
)

var (
	// ErrTrainingInProgress is returned by Train while another run is active.
	ErrTrainingInProgress = errors.New("training already in progress")
	// ErrGenerationMismatch is returned by Load when the two stored blobs
	// come from different training runs, as seen mid-way through a Put.
	ErrGenerationMismatch = errors.New("stored models come from different training runs")
)

// Snapshot is an immutable pair of trained models.
type Snapshot struct {
	Classifier *classifier.Model
	Clusterer  *cluster.Model
	Generation string
	LoadedAt   time.Time
}

// Options configures a Registry.
type Options struct {
	Store      modelstore.Storage
	Normalizer domain.Normalizer
	Resources  cluster.ResourceSource
	Classifier classifier.Config
	Clusterer  cluster.Config
	Logger     *zap.Logger
}

// Registry is safe for concurrent use.
type Registry struct {
	store      modelstore.Storage
	normalizer domain.Normalizer
	resources  cluster.ResourceSource
	clsCfg     classifier.Config
	cluCfg     cluster.Config
	logger     *zap.Logger

	current  atomic.Pointer[Snapshot]
	training sync.Mutex
}

func New(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:      opts.Store,
		normalizer: opts.Normalizer,
		resources:  opts.Resources,
		clsCfg:     opts.Classifier,
		cluCfg:     opts.Clusterer,
		logger:     logger.Named("registry"),
	}
}

// Snapshot returns the served models, or nil before the first successful
// Load or Train.
func (r *Registry) Snapshot() *Snapshot { return r.current.Load() }

// Load reads both blobs from the store and swaps them in. Missing blobs
// yield domain.ErrModelNotLoaded; blobs written by an incompatible version
// yield domain.ErrIncompatibleModelVersion, and a pair from two training
// runs yields ErrGenerationMismatch. On error the served snapshot is
// unchanged.
func (r *Registry) Load(ctx context.Context) error {
	clsData, err := r.store.Get(ctx, modelstore.ClassifierBlob)
	if err != nil {
		return r.loadError(err)
	}
	cluData, err := r.store.Get(ctx, modelstore.ClustererBlob)
	if err != nil {
		return r.loadError(err)
	}

	var clsState classifier.State
	if err := modelstore.Decode(clsData, modelstore.KindClassifier, &clsState); err != nil {
		return fmt.Errorf("load classifier: %w", err)
	}
	cls, err := classifier.FromState(clsState)
	if err != nil {
		return fmt.Errorf("load classifier: %w", err)
	}
	var cluState cluster.State
	if err := modelstore.Decode(cluData, modelstore.KindClusterer, &cluState); err != nil {
		return fmt.Errorf("load clusterer: %w", err)
	}
	if clsState.Generation != cluState.Generation {
		return fmt.Errorf("load models: %w: classifier %q, clusterer %q", ErrGenerationMismatch, clsState.Generation, cluState.Generation)
	}
	clu, err := cluster.FromState(cluState)
	if err != nil {
		return fmt.Errorf("load clusterer: %w", err)
	}

	r.current.Store(&Snapshot{Classifier: cls, Clusterer: clu, Generation: clsState.Generation, LoadedAt: time.Now().UTC()})
	r.logger.Info("models loaded",
		zap.String("generation", clsState.Generation),
		zap.Int("clusters", clu.K()),
		zap.Bool("cluster_fallback", clu.IsFallback()),
		zap.Time("classifier_trained_at", cls.TrainedAt()))
	return nil
}

func (r *Registry) loadError(err error) error {
	if errors.Is(err, modelstore.ErrNotFound) {
		return fmt.Errorf("load models: %w: %v", domain.ErrModelNotLoaded, err)
	}
	return fmt.Errorf("load models: %w", err)
}

// Train fits both models on docs concurrently, persists them and then
// swaps them in. Documents without a difficulty label are used for
// clustering only. A failed run leaves the served snapshot untouched.
func (r *Registry) Train(ctx context.Context, docs []domain.Document) (domain.TrainingReport, error) {
	if !r.training.TryLock() {
		return domain.TrainingReport{}, ErrTrainingInProgress
	}
	defer r.training.Unlock()

	start := time.Now()
	examples, items := r.prepare(docs)
	r.logger.Info("training started", zap.Int("documents", len(docs)), zap.Int("labeled", len(examples)))

	var (
		cls *classifier.Model
		clu *cluster.Model
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := classifier.Train(examples, r.clsCfg)
		if err != nil {
			return err
		}
		cls = m
		return gctx.Err()
	})
	g.Go(func() error {
		m, err := cluster.Train(items, r.resources, r.cluCfg)
		if err != nil {
			return err
		}
		clu = m
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		r.logger.Warn("training failed", zap.Error(err))
		return domain.TrainingReport{}, err
	}

	gen := uuid.NewString()
	clsState, cluState := cls.State(), clu.State()
	clsState.Generation, cluState.Generation = gen, gen
	clsData, err := modelstore.Encode(modelstore.KindClassifier, clsState)
	if err != nil {
		return domain.TrainingReport{}, err
	}
	cluData, err := modelstore.Encode(modelstore.KindClusterer, cluState)
	if err != nil {
		return domain.TrainingReport{}, err
	}
	if err := r.store.Put(ctx,
		modelstore.Blob{Name: modelstore.ClassifierBlob, Data: clsData},
		modelstore.Blob{Name: modelstore.ClustererBlob, Data: cluData},
	); err != nil {
		r.logger.Error("persisting models failed", zap.Error(err))
		return domain.TrainingReport{}, fmt.Errorf("persist models: %w", err)
	}

	r.current.Store(&Snapshot{Classifier: cls, Clusterer: clu, Generation: gen, LoadedAt: time.Now().UTC()})

	metrics := cls.Metrics()
	report := domain.TrainingReport{
		Accuracy:   metrics.Accuracy,
		F1:         metrics.F1,
		Silhouette: clu.Silhouette(),
		Clusters:   clu.K(),
		Documents:  len(docs),
	}
	r.logger.Info("training finished",
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("f1", report.F1),
		zap.Bool("held_out", metrics.HeldOut),
		zap.Int("k", report.Clusters),
		zap.Float64("silhouette", report.Silhouette),
		zap.Duration("took", time.Since(start)))
	return report, nil
}

func (r *Registry) prepare(docs []domain.Document) ([]classifier.Example, []cluster.Item) {
	var examples []classifier.Example
	items := make([]cluster.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, cluster.Item{
			Tokens:  r.normalizer.Normalize(d.Combined()),
			Subject: domain.ParseSubject(d.Subject),
		})
		if d.Difficulty == "" {
			continue
		}
		label, err := domain.ParseDifficulty(d.Difficulty)
		if err != nil {
			r.logger.Warn("skipping document with unknown difficulty", zap.String("topic", d.Topic), zap.Error(err))
			continue
		}
		examples = append(examples, classifier.Example{Tokens: r.normalizer.Normalize(d.Text), Label: label})
	}
	return examples, items
}
