package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studypal/internal/domain"
)

// StudyPort is the TUI-facing subset of the study service.
type StudyPort interface {
	ClassifyDifficulty(text string) domain.Classification
	Summarize(text string, maxSentences int) domain.Summary
	ExtractKeywords(text string, n int) []string
	GenerateTips(subject, text string) []string
	SuggestResources(subject, topic, text string) []domain.ResourceDescriptor
	TrainModels(ctx context.Context, corpusPath string) (domain.TrainingReport, error)
}

type pane int

const (
	paneOverview pane = iota
	paneSummary
	paneTips
	paneResources
	paneCount
)

var paneTitles = [paneCount]string{"Overview", "Summary", "Tips", "Resources"}

// analysis is the result of one Enter press.
type analysis struct {
	text      string
	subject   domain.Subject
	class     domain.Classification
	summary   domain.Summary
	keywords  []string
	tips      []string
	resources []domain.ResourceDescriptor
}

type trainedMsg struct {
	report domain.TrainingReport
	err    error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service    StudyPort
	corpusPath string
	input      textinput.Model
	viewport   viewport.Model
	subjects   []domain.Subject
	subject    int
	pane       pane
	result     *analysis
	status     string
	training   bool
	ready      bool
}

// New creates a new TUI model instance. corpusPath is used by the train key.
func New(service StudyPort, corpusPath, status string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Paste study material and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if status == "" {
		status = "Ready. Tab changes subject, ctrl+t retrains."
	}
	return Model{
		service:    service,
		corpusPath: corpusPath,
		input:      ti,
		viewport:   vp,
		subjects:   domain.Subjects(),
		status:     status,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and input boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + tabs
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderPane())
		return m, nil
	case trainedMsg:
		m.training = false
		if msg.err != nil {
			m.status = "Training failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Trained on %d documents: accuracy %.2f, %d clusters",
				msg.report.Documents, msg.report.Accuracy, msg.report.Clusters)
		}
		if m.result != nil {
			m.result = m.analyze(m.result.text)
		}
		m.viewport.SetContent(m.renderPane())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.result = m.analyze(text)
				m.status = fmt.Sprintf("Analyzed %d characters as %s", len(text), m.subjects[m.subject])
				m.viewport.SetContent(m.renderPane())
				return m, nil
			}
		case "tab":
			m.subject = (m.subject + 1) % len(m.subjects)
			if m.result != nil {
				m.result = m.analyze(m.result.text)
				m.viewport.SetContent(m.renderPane())
			}
			return m, nil
		case "down":
			m.pane = (m.pane + 1) % paneCount
			m.viewport.SetContent(m.renderPane())
			return m, nil
		case "up":
			m.pane = (m.pane - 1 + paneCount) % paneCount
			m.viewport.SetContent(m.renderPane())
			return m, nil
		case "ctrl+t":
			if m.training {
				return m, nil
			}
			m.training = true
			m.status = "Training..."
			return m, m.train()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) train() tea.Cmd {
	svc, path := m.service, m.corpusPath
	return func() tea.Msg {
		report, err := svc.TrainModels(context.Background(), path)
		return trainedMsg{report: report, err: err}
	}
}

func (m Model) analyze(text string) *analysis {
	subject := m.subjects[m.subject]
	name := ""
	if subject != domain.SubjectOther {
		name = subject.String()
	}
	return &analysis{
		text:      text,
		subject:   subject,
		class:     m.service.ClassifyDifficulty(text),
		summary:   m.service.Summarize(text, 0),
		keywords:  m.service.ExtractKeywords(text, 0),
		tips:      m.service.GenerateTips(name, text),
		resources: m.service.SuggestResources(name, "", text),
	}
}

// View renders the TUI layout and current pane.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("StudyPal") +
		dimStyle.Render("  subject: "+m.subjects[m.subject].String())
	tabs := make([]string, len(paneTitles))
	for i, t := range paneTitles {
		if pane(i) == m.pane {
			tabs[i] = activeTabStyle.Render(t)
		} else {
			tabs[i] = dimStyle.Render(t)
		}
	}
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + strings.Join(tabs, "  ") + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderPane() string {
	r := m.result
	if r == nil {
		return "Nothing analyzed yet."
	}
	var b strings.Builder
	switch m.pane {
	case paneOverview:
		fmt.Fprintf(&b, "Subject: %s\n", r.subject)
		fmt.Fprintf(&b, "Difficulty: %s (confidence %.2f)\n\n", r.class.Label, r.class.Confidence)
		b.WriteString("Keywords: ")
		if len(r.keywords) == 0 {
			b.WriteString("none")
		} else {
			b.WriteString(strings.Join(r.keywords, ", "))
		}
	case paneSummary:
		fmt.Fprintf(&b, "Compression %.2f\n\n", r.summary.CompressionRatio)
		b.WriteString(highlightSummary(r.summary))
	case paneTips:
		for i, t := range r.tips {
			fmt.Fprintf(&b, "%d. %s\n", i+1, t)
		}
	case paneResources:
		for _, res := range r.resources {
			fmt.Fprintf(&b, "%s [%s]\n  %s\n", highlightStyle.Render(res.Name), res.Type, res.URL)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	activeTabStyle = lipgloss.NewStyle().Underline(true).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// highlightSummary renders every scored sentence in source order, with the
// sentences kept in the summary highlighted.
func highlightSummary(s domain.Summary) string {
	if len(s.Sentences) == 0 {
		return s.Summary
	}
	out := make([]string, len(s.Sentences))
	for i, sent := range s.Sentences {
		text := strings.TrimSpace(sent.Text)
		if strings.Contains(s.Summary, text) {
			out[i] = highlightStyle.Render(text)
		} else {
			out[i] = dimStyle.Render(text)
		}
	}
	return strings.Join(out, " ")
}
