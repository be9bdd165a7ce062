// Package feedback turns quiz results into encouraging messages.
package feedback

import (
	"fmt"
	"strings"

	"studypal/internal/domain"
)

// Band is the performance tier of a quiz score.
type Band int

const (
	NeedsWork Band = iota
	Fair
	Excellent
)

func (b Band) String() string {
	switch b {
	case Excellent:
		return "excellent"
	case Fair:
		return "fair"
	default:
		return "needs_work"
	}
}

// ParseBand accepts band names as printed by String, plus "good",
// "medium" and "needs_improvement".
func ParseBand(s string) (Band, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excellent", "good":
		return Excellent, nil
	case "fair", "medium":
		return Fair, nil
	case "needs_work", "needs_improvement", "poor":
		return NeedsWork, nil
	}
	return NeedsWork, fmt.Errorf("unknown feedback band %q", s)
}

// QuizScore is a number of correct answers out of a total.
type QuizScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent returns the score in [0, 100]. An empty quiz scores 0.
func (q QuizScore) Percent() float64 {
	if q.Total <= 0 {
		return 0
	}
	p := float64(q.Correct) / float64(q.Total) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Band classifies the score: 80% and above is Excellent, 50% up to 80% is
// Fair and anything lower NeedsWork.
func (q QuizScore) Band() Band {
	switch p := q.Percent(); {
	case p >= 80:
		return Excellent
	case p >= 50:
		return Fair
	}
	return NeedsWork
}

// DifficultyMix counts the questions of each difficulty in a quiz.
type DifficultyMix struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
}

func (m DifficultyMix) total() int { return m.Easy + m.Medium }

var templates = map[Band]string{
	Excellent: "Excellent work! You scored %.0f%% (%d/%d). You're mastering this material.",
	Fair:      "Good effort! You scored %.0f%% (%d/%d). Review the questions you missed and try again.",
	NeedsWork: "Keep practicing! You scored %.0f%% (%d/%d). Go back over the fundamentals before the next attempt.",
}

const (
	suffixStepUp   = " Most of these questions were easy, so try some medium ones next."
	suffixStepDown = " Most of these questions were medium, so revisit some easy ones first."
)

// GenerateFeedback returns the message for a quiz score. The difficulty mix
// adds a suggestion when a strong score came mostly from easy questions or a
// weak score from mostly medium ones.
func GenerateFeedback(score QuizScore, mix DifficultyMix) string {
	band := score.Band()
	msg := fmt.Sprintf(templates[band], score.Percent(), score.Correct, score.Total)
	if mix.total() == 0 {
		return msg
	}
	switch {
	case band == Excellent && mix.Easy*2 > mix.total():
		msg += suffixStepUp
	case band == NeedsWork && mix.Medium*2 > mix.total():
		msg += suffixStepDown
	}
	return msg
}

var subjectTemplates = map[Band]string{
	Excellent: "Excellent work on %s! You're making great progress. Keep up the momentum!",
	Fair:      "Good work on %s! There's room for improvement. Keep practicing and you'll get there!",
	NeedsWork: "Keep practicing %s! Review the basics and try again. Every expert was once a beginner!",
}

// ForSubject returns a subject-flavored message for band. An empty subject
// reads as "your studies".
func ForSubject(subject string, band Band) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "your studies"
	}
	tmpl, ok := subjectTemplates[band]
	if !ok {
		tmpl = subjectTemplates[NeedsWork]
	}
	return fmt.Sprintf(tmpl, subject)
}

// MixFromLabels counts difficulty labels.
func MixFromLabels(labels []domain.Difficulty) DifficultyMix {
	var m DifficultyMix
	for _, l := range labels {
		if l == domain.Easy {
			m.Easy++
		} else {
			m.Medium++
		}
	}
	return m
}
