package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"studypal/internal/classifier"
	"studypal/internal/cluster"
	"studypal/internal/keywords"
	"studypal/internal/summarizer"
	"studypal/internal/textnorm"
)

// Environment overrides.
const (
	EnvConfigPath = "STUDYPAL_CONFIG"
	EnvLogLevel   = "STUDYPAL_LOG_LEVEL"
)

// NormalizerConfig configures tokenization.
type NormalizerConfig struct {
	MinTokenLength int `yaml:"min_token_length"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// KeywordsConfig configures keyword extraction.
type KeywordsConfig struct {
	DefaultN int `yaml:"default_n"`
}

// StoreConfig selects and configures the model store implementation.
type StoreConfig struct {
	Type       string `yaml:"type"`
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
	Watch      bool   `yaml:"watch"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Normalizer NormalizerConfig  `yaml:"normalizer"`
	Classifier classifier.Config `yaml:"classifier"`
	Clusterer  cluster.Config    `yaml:"clusterer"`
	Summarizer SummarizerConfig  `yaml:"summarizer"`
	Keywords   KeywordsConfig    `yaml:"keywords"`
	Store      StoreConfig       `yaml:"store"`
	Server     ServerConfig      `yaml:"server"`
	CorpusPath string            `yaml:"corpus_path"`
	Log        LogConfig         `yaml:"log"`
}

// Validate reports settings that cannot be defaulted.
func (c *AppConfig) Validate() error {
	switch c.Store.Type {
	case "file", "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	if c.Summarizer.Type != "frequency" {
		return fmt.Errorf("unknown summarizer type %q", c.Summarizer.Type)
	}
	return nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// LoadDefault honours $STUDYPAL_CONFIG, then tries ./studypal.yaml, then
// ~/.config/studypal/config.yaml. If none exists, it writes defaults to the
// user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		cfg, err := Load(p)
		return cfg, p, err
	}
	cwdPath := "studypal.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "studypal", "config.yaml"), nil
}

func defaultModelDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "studypal", "models")
	}
	return filepath.Join(".studypal", "models")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Normalizer: NormalizerConfig{MinTokenLength: textnorm.DefaultMinTokenLength},
		Classifier: classifier.DefaultConfig(),
		Clusterer:  cluster.DefaultConfig(),
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: summarizer.DefaultMaxSentences},
		Keywords:   KeywordsConfig{DefaultN: keywords.DefaultN},
		Store:      StoreConfig{Type: "file", Dir: defaultModelDir()},
		Server:     ServerConfig{Address: ":8080"},
		Log:        LogConfig{Level: "info"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	d := defaultConfig()
	if cfg.Normalizer.MinTokenLength <= 0 {
		cfg.Normalizer.MinTokenLength = d.Normalizer.MinTokenLength
	}
	if cfg.Classifier.VocabSize <= 0 {
		cfg.Classifier.VocabSize = d.Classifier.VocabSize
	}
	if cfg.Classifier.MaxIterations <= 0 {
		cfg.Classifier.MaxIterations = d.Classifier.MaxIterations
	}
	if cfg.Classifier.C <= 0 {
		cfg.Classifier.C = d.Classifier.C
	}
	if cfg.Classifier.LearningRate <= 0 {
		cfg.Classifier.LearningRate = d.Classifier.LearningRate
	}
	if cfg.Classifier.TestFraction <= 0 || cfg.Classifier.TestFraction >= 1 {
		cfg.Classifier.TestFraction = d.Classifier.TestFraction
	}
	if cfg.Clusterer.VocabSize <= 0 {
		cfg.Clusterer.VocabSize = d.Clusterer.VocabSize
	}
	if cfg.Clusterer.KMin < 2 {
		cfg.Clusterer.KMin = d.Clusterer.KMin
	}
	if cfg.Clusterer.KMax < cfg.Clusterer.KMin {
		cfg.Clusterer.KMax = max(d.Clusterer.KMax, cfg.Clusterer.KMin)
	}
	if cfg.Clusterer.MaxIterations <= 0 {
		cfg.Clusterer.MaxIterations = d.Clusterer.MaxIterations
	}
	if cfg.Clusterer.NInit <= 0 {
		cfg.Clusterer.NInit = d.Clusterer.NInit
	}
	if cfg.Clusterer.MaxResources <= 0 {
		cfg.Clusterer.MaxResources = d.Clusterer.MaxResources
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = d.Summarizer.Type
	}
	if cfg.Summarizer.MaxSentences <= 0 {
		cfg.Summarizer.MaxSentences = d.Summarizer.MaxSentences
	}
	if cfg.Keywords.DefaultN <= 0 {
		cfg.Keywords.DefaultN = d.Keywords.DefaultN
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = d.Store.Type
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = d.Store.Dir
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = d.Server.Address
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = d.Log.Level
	}
}

func applyEnv(cfg *AppConfig) {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
}
