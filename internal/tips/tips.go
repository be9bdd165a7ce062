// Package tips generates study tips from a subject and a piece of text.
package tips

import (
	"fmt"
	"strings"

	"studypal/internal/domain"
	"studypal/internal/keywords"
)

// MaxTips caps the combined tip list.
const MaxTips = 7

// minTextLength is the shortest text that gets text-derived tips.
const minTextLength = 20

var scienceTips = []string{
	"Understand the scientific method and how it applies to different topics.",
	"Connect concepts to real-world examples. Science is everywhere!",
	"Use diagrams and models to visualize complex processes.",
	"Review key terminology regularly. Scientific vocabulary is important.",
	"Perform experiments or watch demonstrations when possible.",
}

var subjectTips = map[domain.Subject][]string{
	domain.SubjectMathematics: {
		"Practice solving problems daily. Math requires consistent practice.",
		"Understand the concepts before memorizing formulas. Know why, not just how.",
		"Work through examples step by step. Don't skip steps in problem-solving.",
		"Review mistakes carefully. Learn from errors to avoid repeating them.",
		"Use visual aids like graphs and diagrams to understand abstract concepts.",
	},
	domain.SubjectScience:   scienceTips,
	domain.SubjectPhysics:   scienceTips,
	domain.SubjectChemistry: scienceTips,
	domain.SubjectBiology:   scienceTips,
	domain.SubjectHistory: {
		"Create timelines to understand chronological relationships.",
		"Focus on cause and effect relationships between events.",
		"Connect historical events to current events for better context.",
		"Use mnemonic devices to remember dates and names.",
		"Read primary sources when possible to understand perspectives.",
	},
	domain.SubjectEnglish: {
		"Read actively: annotate passages and note the author's choices.",
		"Build vocabulary by keeping a list of new words with example sentences.",
		"Outline essays before writing. Structure makes arguments clearer.",
		"Read your writing aloud to catch awkward phrasing.",
	},
}

var generalTips = []string{
	"Break down large topics into smaller sections.",
	"Use multiple study methods: reading, writing, speaking, and listening.",
	"Teach the material to someone else. Teaching reinforces learning.",
	"Create mind maps or concept maps to visualize relationships.",
	"Stay organized with notes and study materials.",
}

var genericTips = []string{
	"Create a study schedule and stick to it. Consistency is important for effective learning.",
	"Take breaks during study sessions. The Pomodoro technique (25 min study, 5 min break) works well.",
	"Use active learning techniques: summarize, question, and explain concepts in your own words.",
	"Review your notes regularly. Spaced repetition helps with long-term memory retention.",
	"Practice problems and quizzes. Testing yourself improves recall and identifies weak areas.",
}

// ForSubject returns the fixed tips for s.
func ForSubject(s domain.Subject) []string {
	list, ok := subjectTips[s]
	if !ok {
		list = generalTips
	}
	return append([]string(nil), list...)
}

// Generator builds tips using a normalizer for keyword extraction.
type Generator struct {
	normalizer domain.Normalizer
}

func NewGenerator(n domain.Normalizer) *Generator {
	return &Generator{normalizer: n}
}

// Generate combines subject tips with tips derived from text, removes
// duplicates and caps the result at MaxTips. subject may be empty.
func (g *Generator) Generate(subject, text string) []string {
	var all []string
	subject = strings.TrimSpace(subject)
	if subject != "" {
		all = append(all, ForSubject(domain.ParseSubject(subject))...)
	}
	if len(strings.TrimSpace(text)) < minTextLength {
		all = append(all, generic(subject)...)
	} else {
		all = append(all, g.fromText(subject, text)...)
	}

	out := make([]string, 0, MaxTips)
	seen := make(map[string]struct{}, len(all))
	for _, tip := range all {
		if _, dup := seen[tip]; dup {
			continue
		}
		seen[tip] = struct{}{}
		out = append(out, tip)
		if len(out) == MaxTips {
			break
		}
	}
	return out
}

func (g *Generator) fromText(subject, text string) []string {
	kw := keywords.TopKeywords(g.normalizer.Normalize(text), 5)
	var out []string
	if len(kw) > 0 {
		top := kw
		if len(top) > 3 {
			top = top[:3]
		}
		out = append(out, fmt.Sprintf("Review key terms regularly: %s. Understanding these concepts is crucial.", strings.Join(top, ", ")))
	}
	out = append(out,
		"Practice active recall by testing yourself on the material without looking at your notes.",
		"Use spaced repetition: review the material multiple times over increasing intervals.",
		"Create your own summaries of the material. Writing helps reinforce learning.",
	)
	if subject != "" {
		out = append(out, fmt.Sprintf("Solve practice problems related to %s. Application reinforces understanding.", subject))
	} else {
		out = append(out, "Solve practice problems regularly. Application reinforces understanding.")
	}
	if len(kw) > 3 {
		out = append(out, "Break down complex topics into smaller, manageable chunks. Master one concept at a time.")
	}
	return out
}

func generic(subject string) []string {
	out := make([]string, 0, len(genericTips)+1)
	if subject != "" {
		out = append(out, fmt.Sprintf("Focus on understanding %s fundamentals before moving to advanced topics.", subject))
	}
	return append(out, genericTips...)
}
