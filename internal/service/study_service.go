// Package service exposes the analysis pipeline as a single facade used by
// the CLI, HTTP and terminal front ends.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"studypal/internal/cluster"
	"studypal/internal/corpus"
	"studypal/internal/domain"
	"studypal/internal/embedding"
	"studypal/internal/feedback"
	"studypal/internal/keywords"
	"studypal/internal/quiz"
	"studypal/internal/registry"
	"studypal/internal/resources"
	"studypal/internal/summarizer"
	"studypal/internal/tips"
)

// UntrainedConfidence is reported when no classifier is loaded.
const UntrainedConfidence = 0.5

// Options wires a StudyService.
type Options struct {
	Normalizer   domain.Normalizer
	Summarizer   *summarizer.FrequencySummarizer
	Tips         *tips.Generator
	Catalog      *resources.Catalog
	Quiz         *quiz.Bank
	Registry     *registry.Registry
	KeywordsN    int
	MaxResources int
	Logger       *zap.Logger
}

// StudyService is safe for concurrent use. Inference reads the registry's
// current snapshot and never blocks on training.
type StudyService struct {
	normalizer domain.Normalizer
	summarizer *summarizer.FrequencySummarizer
	tips       *tips.Generator
	catalog    *resources.Catalog
	quiz       *quiz.Bank
	registry   *registry.Registry
	fallback   *cluster.Model
	keywordsN  int
	logger     *zap.Logger
}

func NewStudyService(opts Options) *StudyService {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bank := opts.Quiz
	if bank == nil {
		bank = quiz.Default()
	}
	n := opts.KeywordsN
	if n <= 0 {
		n = keywords.DefaultN
	}
	return &StudyService{
		normalizer: opts.Normalizer,
		summarizer: opts.Summarizer,
		tips:       opts.Tips,
		catalog:    opts.Catalog,
		quiz:       bank,
		registry:   opts.Registry,
		fallback:   cluster.Fallback(opts.Catalog, opts.MaxResources),
		keywordsN:  n,
		logger:     logger.Named("service"),
	}
}

// ClassifyDifficulty predicts the difficulty of text. Without a trained
// model it answers medium with confidence 0.5.
func (s *StudyService) ClassifyDifficulty(text string) domain.Classification {
	snap := s.registry.Snapshot()
	if snap == nil {
		return domain.Classification{Label: domain.Medium, Confidence: UntrainedConfidence}
	}
	tokens := s.normalizer.Normalize(text)
	vocab := snap.Classifier.Vocabulary()
	if len(tokens) > 0 && vocab.Overlap(tokens) == 0 {
		s.logger.Debug("no known terms, scoring from bias", zap.Int("tokens", len(tokens)))
	}
	c, err := snap.Classifier.ClassifyVector(embedding.CountVector(tokens, vocab))
	if err != nil {
		s.logger.Warn("classify vector", zap.Error(err))
		return snap.Classifier.Classify(tokens)
	}
	return c
}

// SuggestResources combines subject resources with those of the topic
// cluster the material falls into.
func (s *StudyService) SuggestResources(subject, topic, text string) []domain.ResourceDescriptor {
	model := s.fallback
	if snap := s.registry.Snapshot(); snap != nil {
		model = snap.Clusterer
	}
	doc := domain.Document{Subject: subject, Topic: topic, Text: text}
	return model.SuggestResources(s.catalog, domain.ParseSubject(subject), s.normalizer.Normalize(doc.Combined()))
}

// AssignCluster returns the topic cluster id of the material.
func (s *StudyService) AssignCluster(subject, topic, text string) int {
	model := s.fallback
	if snap := s.registry.Snapshot(); snap != nil {
		model = snap.Clusterer
	}
	doc := domain.Document{Subject: subject, Topic: topic, Text: text}
	tokens := s.normalizer.Normalize(doc.Combined())
	vocab := model.Vocabulary()
	if vocab == nil {
		return model.AssignCluster(tokens)
	}
	vec := embedding.TFIDFVector(tokens, vocab)
	if vec.IsZero() {
		s.logger.Debug("no known terms, nearest centroid to origin", zap.String("subject", subject))
	}
	id, err := model.AssignVector(vec)
	if err != nil {
		s.logger.Warn("assign vector", zap.Error(err))
		return model.AssignCluster(tokens)
	}
	return id
}

// Summarize returns an extractive summary of at most maxSentences sentences.
func (s *StudyService) Summarize(text string, maxSentences int) domain.Summary {
	return s.summarizer.Summarize(text, maxSentences)
}

// SummarizeToLength summarizes text toward targetChars characters.
func (s *StudyService) SummarizeToLength(text string, targetChars int) domain.Summary {
	return s.summarizer.SummarizeToLength(text, targetChars)
}

// ExtractKeywords returns up to n keywords of text; n <= 0 uses the
// configured default.
func (s *StudyService) ExtractKeywords(text string, n int) []string {
	if n <= 0 {
		n = s.keywordsN
	}
	return keywords.TopKeywords(s.normalizer.Normalize(text), n)
}

// GenerateTips returns study tips for a subject and text.
func (s *StudyService) GenerateTips(subject, text string) []string {
	return s.tips.Generate(subject, text)
}

// GenerateFeedback returns the message for a quiz score. A non-empty
// subject appends the subject-flavored message for the score's band.
func (s *StudyService) GenerateFeedback(score feedback.QuizScore, mix feedback.DifficultyMix, subject string) string {
	msg := feedback.GenerateFeedback(score, mix)
	if strings.TrimSpace(subject) != "" {
		msg += " " + feedback.ForSubject(subject, score.Band())
	}
	return msg
}

// GenerateQuiz draws up to n questions for subject (Mathematics when the
// subject is unknown) and labels each with its predicted difficulty. A zero
// seed draws from the clock.
func (s *StudyService) GenerateQuiz(subject string, n int, seed int64) []quiz.Question {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	qs := s.quiz.Generate(domain.ParseSubject(subject), n, rand.New(rand.NewSource(seed)))
	for i := range qs {
		c := s.ClassifyDifficulty(qs[i].Question)
		qs[i].Difficulty = c.Label
		qs[i].Confidence = c.Confidence
	}
	return qs
}

// QuizMix classifies each question and counts the predicted labels.
func (s *StudyService) QuizMix(questions []string) feedback.DifficultyMix {
	labels := make([]domain.Difficulty, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			continue
		}
		labels = append(labels, s.ClassifyDifficulty(q).Label)
	}
	return feedback.MixFromLabels(labels)
}

// TrainModels loads and cleans the corpus at corpusPath (the built-in seed
// corpus when empty) and retrains both models.
func (s *StudyService) TrainModels(ctx context.Context, corpusPath string) (domain.TrainingReport, error) {
	docs, err := corpus.Load(corpusPath)
	if err != nil {
		return domain.TrainingReport{}, err
	}
	docs = corpus.Clean(docs)
	s.logger.Info("corpus loaded", zap.String("path", corpusPath), zap.Int("documents", len(docs)))
	report, err := s.registry.Train(ctx, docs)
	if err != nil {
		return domain.TrainingReport{}, fmt.Errorf("train models: %w", err)
	}
	return report, nil
}

// DescribeCorpus summarizes the corpus at corpusPath.
func (s *StudyService) DescribeCorpus(corpusPath string) (corpus.Stats, error) {
	docs, err := corpus.Load(corpusPath)
	if err != nil {
		return corpus.Stats{}, err
	}
	return corpus.Describe(docs), nil
}

// Status describes the served models.
type Status struct {
	Loaded     bool      `json:"loaded"`
	Accuracy   float64   `json:"accuracy,omitempty"`
	F1         float64   `json:"f1,omitempty"`
	HeldOut    bool      `json:"held_out,omitempty"`
	Clusters   int       `json:"clusters"`
	Silhouette float64   `json:"silhouette,omitempty"`
	Fallback   bool      `json:"cluster_fallback"`
	TrainedAt  time.Time `json:"trained_at,omitempty"`
}

// Status reports on the current snapshot.
func (s *StudyService) Status() Status {
	snap := s.registry.Snapshot()
	if snap == nil {
		return Status{Clusters: s.fallback.K(), Fallback: true}
	}
	m := snap.Classifier.Metrics()
	return Status{
		Loaded:     true,
		Accuracy:   m.Accuracy,
		F1:         m.F1,
		HeldOut:    m.HeldOut,
		Clusters:   snap.Clusterer.K(),
		Silhouette: snap.Clusterer.Silhouette(),
		Fallback:   snap.Clusterer.IsFallback(),
		TrainedAt:  snap.Classifier.TrainedAt(),
	}
}
