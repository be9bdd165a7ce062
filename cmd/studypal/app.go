package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"studypal/internal/config"
	"studypal/internal/domain"
	"studypal/internal/modelstore"
	"studypal/internal/modelstore/file"
	"studypal/internal/modelstore/memory"
	"studypal/internal/modelstore/sqlite"
	"studypal/internal/registry"
	"studypal/internal/resources"
	"studypal/internal/service"
	"studypal/internal/summarizer"
	"studypal/internal/textnorm"
	"studypal/internal/tips"
)

// app holds the components assembled from one config.
type app struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	store    modelstore.Storage
	registry *registry.Registry
	svc      *service.StudyService
}

func loadConfig(path string) (*config.AppConfig, error) {
	var cfg *config.AppConfig
	var err error
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

func openStore(ctx context.Context, cfg config.StoreConfig) (modelstore.Storage, error) {
	var st modelstore.Storage
	switch cfg.Type {
	case "file", "":
		st = file.NewStorage(cfg.Dir)
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		st = db
	case "memory":
		st = memory.NewStorage()
	default:
		return nil, fmt.Errorf("unknown store: %s", cfg.Type)
	}
	if err := st.Init(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init %s store: %w", cfg.Type, err)
	}
	return st, nil
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	norm := textnorm.New(cfg.Normalizer.MinTokenLength)
	catalog := resources.Default()
	reg := registry.New(registry.Options{
		Store:      st,
		Normalizer: norm,
		Resources:  catalog,
		Classifier: cfg.Classifier,
		Clusterer:  cfg.Clusterer,
		Logger:     logger,
	})
	svc := service.NewStudyService(service.Options{
		Normalizer:   norm,
		Summarizer:   summarizer.NewFrequencySummarizer(norm, cfg.Summarizer.MaxSentences),
		Tips:         tips.NewGenerator(norm),
		Catalog:      catalog,
		Registry:     reg,
		KeywordsN:    cfg.Keywords.DefaultN,
		MaxResources: cfg.Clusterer.MaxResources,
		Logger:       logger,
	})
	return &app{cfg: cfg, logger: logger, store: st, registry: reg, svc: svc}, nil
}

// loadModels restores persisted models. Missing models are not an error:
// the service answers with its untrained defaults.
func (a *app) loadModels(ctx context.Context) error {
	err := a.registry.Load(ctx)
	if errors.Is(err, domain.ErrModelNotLoaded) {
		a.logger.Info("no trained models found, serving defaults")
		return nil
	}
	return err
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
