package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studypal/internal/domain"
	"studypal/internal/feedback"
	"studypal/internal/quiz"
	"studypal/internal/registry"
	"studypal/internal/service"
)

type fakeAnalyzer struct {
	trainErr  error
	trainPath string
	quizArgs  []any
}

func (f *fakeAnalyzer) ClassifyDifficulty(text string) domain.Classification {
	if strings.TrimSpace(text) == "" {
		return domain.Classification{Label: domain.Medium, Confidence: 0.5}
	}
	return domain.Classification{Label: domain.Easy, Confidence: 0.75}
}

func (f *fakeAnalyzer) SuggestResources(subject, topic, text string) []domain.ResourceDescriptor {
	return []domain.ResourceDescriptor{{Name: subject, URL: "https://example.org/" + topic, Type: "Reference"}}
}

func (f *fakeAnalyzer) Summarize(text string, maxSentences int) domain.Summary {
	return domain.Summary{Summary: text[:maxSentences], CompressionRatio: 0.5}
}

func (f *fakeAnalyzer) ExtractKeywords(text string, n int) []string {
	return strings.Fields(text)[:n]
}

func (f *fakeAnalyzer) GenerateTips(subject, text string) []string {
	return []string{"tip for " + subject}
}

func (f *fakeAnalyzer) GenerateFeedback(score feedback.QuizScore, mix feedback.DifficultyMix, subject string) string {
	return feedback.GenerateFeedback(score, mix)
}

func (f *fakeAnalyzer) QuizMix(questions []string) feedback.DifficultyMix {
	return feedback.DifficultyMix{Medium: len(questions)}
}

func (f *fakeAnalyzer) GenerateQuiz(subject string, n int, seed int64) []quiz.Question {
	f.quizArgs = []any{subject, n, seed}
	return []quiz.Question{{Question: "2+2?", Options: []string{"3", "4"}, Correct: 1, Difficulty: domain.Easy, Confidence: 0.8}}
}

func (f *fakeAnalyzer) TrainModels(ctx context.Context, corpusPath string) (domain.TrainingReport, error) {
	f.trainPath = corpusPath
	if f.trainErr != nil {
		return domain.TrainingReport{}, f.trainErr
	}
	return domain.TrainingReport{Accuracy: 1, Clusters: 3, Documents: 10}, nil
}

func (f *fakeAnalyzer) Status() service.Status { return service.Status{Loaded: true, Clusters: 3} }

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	s := NewServer(&fakeAnalyzer{}, "", nil)
	code, body := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestClassify(t *testing.T) {
	s := NewServer(&fakeAnalyzer{}, "", nil)
	code, body := do(t, s, http.MethodPost, "/v1/classify", `{"text":"2+2"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "easy", body["label"])
	assert.Equal(t, 0.75, body["confidence"])

	code, body = do(t, s, http.MethodPost, "/v1/classify", `{"text":"  "}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "medium", body["label"])

	code, body = do(t, s, http.MethodPost, "/v1/classify", `{}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.5, body["confidence"])

	code, _ = do(t, s, http.MethodPost, "/v1/classify", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTextEndpoints(t *testing.T) {
	s := NewServer(&fakeAnalyzer{}, "", nil)

	code, body := do(t, s, http.MethodPost, "/v1/summarize", `{"text":"abcdef","max_sentences":3}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "abc", body["summary"])
	assert.Equal(t, 0.5, body["compression_ratio"])

	code, body = do(t, s, http.MethodPost, "/v1/keywords", `{"text":"a b c","n":2}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"a", "b"}, body["keywords"])

	code, body = do(t, s, http.MethodPost, "/v1/tips", `{"subject":"History"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"tip for History"}, body["tips"])

	code, body = do(t, s, http.MethodPost, "/v1/resources", `{"subject":"Math","topic":"algebra"}`)
	assert.Equal(t, http.StatusOK, code)
	list := body["resources"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "https://example.org/algebra", list[0].(map[string]any)["url"])
}

func TestFeedback(t *testing.T) {
	s := NewServer(&fakeAnalyzer{}, "", nil)
	code, body := do(t, s, http.MethodPost, "/v1/feedback", `{"correct":9,"total":10,"mix":{"easy":8,"medium":2}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "excellent", body["band"])
	assert.Contains(t, body["feedback"], "try some medium ones next")

	code, body = do(t, s, http.MethodPost, "/v1/feedback", `{"correct":2,"total":10,"questions":["q1","q2","q3"]}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "needs_work", body["band"])
	assert.Equal(t, float64(3), body["mix"].(map[string]any)["medium"])
	assert.Contains(t, body["feedback"], "revisit some easy ones first")

	code, _ = do(t, s, http.MethodPost, "/v1/feedback", `{"correct":11,"total":10}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, s, http.MethodPost, "/v1/feedback", `{"correct":0,"total":0}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestQuiz(t *testing.T) {
	fake := &fakeAnalyzer{}
	s := NewServer(fake, "", nil)
	code, body := do(t, s, http.MethodPost, "/v1/quiz", `{"subject":"Math","n":3,"seed":9}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"Math", 3, int64(9)}, fake.quizArgs)
	qs := body["questions"].([]any)
	require.Len(t, qs, 1)
	q := qs[0].(map[string]any)
	assert.Equal(t, "easy", q["difficulty"])
	assert.Equal(t, float64(1), q["correct"])

	code, _ = do(t, s, http.MethodPost, "/v1/quiz", `{"n":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTrain(t *testing.T) {
	fake := &fakeAnalyzer{}
	s := NewServer(fake, "corpus.csv", nil)
	code, body := do(t, s, http.MethodPost, "/v1/train", `{}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["clusters"])
	assert.Equal(t, "corpus.csv", fake.trainPath)

	fake.trainErr = registry.ErrTrainingInProgress
	code, _ = do(t, s, http.MethodPost, "/v1/train", `{}`)
	assert.Equal(t, http.StatusConflict, code)

	fake.trainErr = domain.ErrInsufficientTrainingData
	code, _ = do(t, s, http.MethodPost, "/v1/train", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	fake.trainErr = errors.New("disk full")
	code, body = do(t, s, http.MethodPost, "/v1/train", `{}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "disk full", body["error"])
}
