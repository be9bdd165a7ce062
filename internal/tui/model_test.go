package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studypal/internal/domain"
)

type fakePort struct {
	subjects []string
	trained  int
}

func (f *fakePort) ClassifyDifficulty(text string) domain.Classification {
	return domain.Classification{Label: domain.Easy, Confidence: 0.9}
}

func (f *fakePort) Summarize(text string, maxSentences int) domain.Summary {
	return domain.Summary{
		Summary:          "First one.",
		CompressionRatio: 0.5,
		Sentences:        []domain.SentenceScore{{Text: "First one.", Position: 0}, {Text: "Second one.", Position: 1}},
	}
}

func (f *fakePort) ExtractKeywords(text string, n int) []string { return []string{"cell", "membrane"} }

func (f *fakePort) GenerateTips(subject, text string) []string {
	f.subjects = append(f.subjects, subject)
	return []string{"Draw diagrams."}
}

func (f *fakePort) SuggestResources(subject, topic, text string) []domain.ResourceDescriptor {
	return []domain.ResourceDescriptor{{Name: "Khan Academy", URL: "https://www.khanacademy.org", Type: "Video"}}
}

func (f *fakePort) TrainModels(ctx context.Context, corpusPath string) (domain.TrainingReport, error) {
	f.trained++
	return domain.TrainingReport{Documents: 10, Accuracy: 0.8, Clusters: 3}, nil
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func sized(port StudyPort) Model {
	next, _ := New(port, "", "").Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func TestAnalyzeOnEnter(t *testing.T) {
	port := &fakePort{}
	m := sized(port)
	assert.Contains(t, m.renderPane(), "Nothing analyzed yet")

	m.input.SetValue("First one. Second one.")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.result)
	out := m.renderPane()
	assert.Contains(t, out, "Difficulty: easy")
	assert.Contains(t, out, "cell, membrane")
	assert.Equal(t, []string{""}, port.subjects)
}

func TestPanesCycle(t *testing.T) {
	m := sized(&fakePort{})
	m.input.SetValue("First one. Second one.")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, paneSummary, m.pane)
	assert.Contains(t, m.renderPane(), "Compression 0.50")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.renderPane(), "1. Draw diagrams.")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.renderPane(), "https://www.khanacademy.org")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, paneOverview, m.pane)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, paneResources, m.pane)
}

func TestTabChangesSubject(t *testing.T) {
	port := &fakePort{}
	m := sized(port)
	m.input.SetValue("some text")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, []string{"", "Mathematics"}, port.subjects)
	assert.True(t, strings.Contains(m.View(), "subject: Mathematics"))
}

func TestTrainKey(t *testing.T) {
	port := &fakePort{}
	m := sized(port)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.NotNil(t, cmd)
	assert.True(t, m.training)

	_, again := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Nil(t, again)

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.training)
	assert.Equal(t, 1, port.trained)
	assert.Contains(t, m.status, "Trained on 10 documents")
}

func TestHighlightSummaryWithoutSentences(t *testing.T) {
	assert.Equal(t, "plain", highlightSummary(domain.Summary{Summary: "plain"}))
}
