// Package api serves the analysis operations as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"studypal/internal/domain"
	"studypal/internal/feedback"
	"studypal/internal/quiz"
	"studypal/internal/registry"
	"studypal/internal/service"
)

// Analyzer is the subset of service.StudyService the server needs.
type Analyzer interface {
	ClassifyDifficulty(text string) domain.Classification
	SuggestResources(subject, topic, text string) []domain.ResourceDescriptor
	Summarize(text string, maxSentences int) domain.Summary
	ExtractKeywords(text string, n int) []string
	GenerateTips(subject, text string) []string
	GenerateFeedback(score feedback.QuizScore, mix feedback.DifficultyMix, subject string) string
	QuizMix(questions []string) feedback.DifficultyMix
	GenerateQuiz(subject string, n int, seed int64) []quiz.Question
	TrainModels(ctx context.Context, corpusPath string) (domain.TrainingReport, error)
	Status() service.Status
}

var _ Analyzer = (*service.StudyService)(nil)

// Server wraps a fiber app bound to an Analyzer. Training always uses the
// corpus configured at construction; clients cannot name files.
type Server struct {
	app        *fiber.App
	svc        Analyzer
	corpusPath string
	logger     *zap.Logger
}

func NewServer(svc Analyzer, corpusPath string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "studypal",
			DisableStartupMessage: true,
			ReadTimeout:           30 * time.Second,
			ErrorHandler:          errorHandler,
		}),
		svc:        svc,
		corpusPath: corpusPath,
		logger:     logger.Named("api"),
	}
	s.routes()
	return s
}

// App exposes the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Use(s.logRequests)
	s.app.Get("/healthz", s.health)

	v1 := s.app.Group("/v1")
	v1.Post("/classify", s.classify)
	v1.Post("/summarize", s.summarize)
	v1.Post("/keywords", s.keywords)
	v1.Post("/tips", s.tips)
	v1.Post("/resources", s.resources)
	v1.Post("/feedback", s.feedback)
	v1.Post("/quiz", s.quiz)
	v1.Post("/train", s.train)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)))
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

type textRequest struct {
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
	Text         string `json:"text"`
	N            int    `json:"n"`
	MaxSentences int    `json:"max_sentences"`
}

// parseText decodes a text request. Empty text is valid and yields the
// service's empty results.
func parseText(c *fiber.Ctx) (textRequest, error) {
	var req textRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	return req, nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "models": s.svc.Status()})
}

func (s *Server) classify(c *fiber.Ctx) error {
	req, err := parseText(c)
	if err != nil {
		return err
	}
	return c.JSON(s.svc.ClassifyDifficulty(req.Text))
}

func (s *Server) summarize(c *fiber.Ctx) error {
	req, err := parseText(c)
	if err != nil {
		return err
	}
	sum := s.svc.Summarize(req.Text, req.MaxSentences)
	return c.JSON(fiber.Map{"summary": sum.Summary, "compression_ratio": sum.CompressionRatio})
}

func (s *Server) keywords(c *fiber.Ctx) error {
	req, err := parseText(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"keywords": s.svc.ExtractKeywords(req.Text, req.N)})
}

func (s *Server) tips(c *fiber.Ctx) error {
	req, err := parseText(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tips": s.svc.GenerateTips(req.Subject, req.Text)})
}

func (s *Server) resources(c *fiber.Ctx) error {
	req, err := parseText(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"resources": s.svc.SuggestResources(req.Subject, req.Topic, req.Text)})
}

type feedbackRequest struct {
	Correct   int                    `json:"correct"`
	Total     int                    `json:"total"`
	Mix       feedback.DifficultyMix `json:"mix"`
	Questions []string               `json:"questions"`
	Subject   string                 `json:"subject"`
}

func (s *Server) feedback(c *fiber.Ctx) error {
	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	if req.Total <= 0 || req.Correct < 0 || req.Correct > req.Total {
		return fiber.NewError(fiber.StatusBadRequest, "correct must be between 0 and total, and total positive")
	}
	score := feedback.QuizScore{Correct: req.Correct, Total: req.Total}
	if len(req.Questions) > 0 {
		req.Mix = s.svc.QuizMix(req.Questions)
	}
	return c.JSON(fiber.Map{
		"band":     score.Band().String(),
		"mix":      req.Mix,
		"feedback": s.svc.GenerateFeedback(score, req.Mix, req.Subject),
	})
}

type quizRequest struct {
	Subject string `json:"subject"`
	N       int    `json:"n"`
	Seed    int64  `json:"seed"`
}

func (s *Server) quiz(c *fiber.Ctx) error {
	var req quizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON")
	}
	if req.N < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "n must not be negative")
	}
	return c.JSON(fiber.Map{"questions": s.svc.GenerateQuiz(req.Subject, req.N, req.Seed)})
}

func (s *Server) train(c *fiber.Ctx) error {
	report, err := s.svc.TrainModels(c.UserContext(), s.corpusPath)
	switch {
	case errors.Is(err, registry.ErrTrainingInProgress):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInsufficientTrainingData):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case err != nil:
		s.logger.Error("training failed", zap.Error(err))
		return err
	}
	return c.JSON(report)
}
