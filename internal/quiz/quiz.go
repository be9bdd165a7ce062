// Package quiz draws multiple-choice questions from a per-subject bank.
package quiz

import (
	_ "embed"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"

	"studypal/internal/domain"
)

// DefaultN is the quiz length used when a caller passes n <= 0.
const DefaultN = 5

//go:embed bank.yaml
var bankYAML []byte

// Question is a multiple-choice question. Correct indexes Options.
type Question struct {
	Question   string            `json:"question" yaml:"question"`
	Options    []string          `json:"options" yaml:"options"`
	Correct    int               `json:"correct" yaml:"correct"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty" yaml:"-"`
	Confidence float64           `json:"confidence,omitempty" yaml:"-"`
}

// Answer returns the text of the correct option.
func (q Question) Answer() string { return q.Options[q.Correct] }

// Bank holds questions keyed by subject. Subjects without questions draw
// from the fallback subject.
type Bank struct {
	bySubject map[domain.Subject][]Question
	fallback  domain.Subject
}

// NewBank validates questions and builds a bank. fallback must have questions.
func NewBank(bySubject map[domain.Subject][]Question, fallback domain.Subject) (*Bank, error) {
	for s, qs := range bySubject {
		for i, q := range qs {
			if q.Question == "" || len(q.Options) < 2 {
				return nil, fmt.Errorf("%s question %d: needs text and at least two options", s, i)
			}
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return nil, fmt.Errorf("%s question %d: correct index %d out of range", s, i, q.Correct)
			}
		}
	}
	if len(bySubject[fallback]) == 0 {
		return nil, fmt.Errorf("fallback subject %s has no questions", fallback)
	}
	return &Bank{bySubject: bySubject, fallback: fallback}, nil
}

// Default returns the built-in bank. Unmatched subjects get Mathematics.
func Default() *Bank {
	var raw map[string][]Question
	if err := yaml.Unmarshal(bankYAML, &raw); err != nil {
		panic(fmt.Sprintf("corrupt question bank: %v", err))
	}
	bySubject := make(map[domain.Subject][]Question, len(raw))
	for name, qs := range raw {
		bySubject[domain.ParseSubject(name)] = qs
	}
	b, err := NewBank(bySubject, domain.SubjectMathematics)
	if err != nil {
		panic(fmt.Sprintf("corrupt question bank: %v", err))
	}
	return b
}

// Questions returns the questions for s, or the fallback subject's.
func (b *Bank) Questions(s domain.Subject) []Question {
	if qs, ok := b.bySubject[s]; ok && len(qs) > 0 {
		return qs
	}
	return b.bySubject[b.fallback]
}

// Generate draws up to n distinct questions for subject in random order and
// shuffles each question's options, keeping Correct on the same answer.
// The returned questions are copies; the bank is never modified.
func (b *Bank) Generate(subject domain.Subject, n int, rng *rand.Rand) []Question {
	if n <= 0 {
		n = DefaultN
	}
	pool := b.Questions(subject)
	order := rng.Perm(len(pool))
	n = min(n, len(pool))

	out := make([]Question, n)
	for i := 0; i < n; i++ {
		src := pool[order[i]]
		opts := make([]string, len(src.Options))
		perm := rng.Perm(len(src.Options))
		correct := 0
		for j, k := range perm {
			opts[j] = src.Options[k]
			if k == src.Correct {
				correct = j
			}
		}
		out[i] = Question{Question: src.Question, Options: opts, Correct: correct}
	}
	return out
}
