// Package summarizer builds extractive summaries by ranking sentences.
package summarizer

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"studypal/internal/chunker"
	"studypal/internal/domain"
)

// Score weights.
const (
	weightFrequency = 0.6
	weightPosition  = 0.25
	weightLength    = 0.15
)

// Sentences between these word counts get the full length score.
const (
	minIdealWords = 5
	maxIdealWords = 40
)

// DefaultMaxSentences is used when a caller passes maxSentences <= 0.
const DefaultMaxSentences = 3

// MinSentenceChars is the trimmed length a segment must exceed to count as
// a sentence.
const MinSentenceChars = 10

var _ domain.Summarizer = (*FrequencySummarizer)(nil)

// FrequencySummarizer ranks sentences by normalized token frequency, with
// bonuses for leading/closing position and moderate length.
type FrequencySummarizer struct {
	normalizer   domain.Normalizer
	chunker      *chunker.SentenceChunker
	maxSentences int
}

// NewFrequencySummarizer creates a summarizer. maxSentences is the default
// summary size.
func NewFrequencySummarizer(n domain.Normalizer, maxSentences int) *FrequencySummarizer {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	return &FrequencySummarizer{
		normalizer:   n,
		chunker:      chunker.NewSentenceChunker(chunker.WithMinChars(MinSentenceChars)),
		maxSentences: maxSentences,
	}
}

// Summarize keeps the maxSentences highest scoring sentences in source
// order. Texts with no more sentences than that are returned unchanged, and
// the summary is never longer than the input.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) domain.Summary {
	if strings.TrimSpace(text) == "" {
		return domain.Summary{}
	}
	if maxSentences <= 0 {
		maxSentences = s.maxSentences
	}

	scored := s.Score(text)
	if len(scored) <= maxSentences {
		return domain.Summary{Summary: text, CompressionRatio: 1, Sentences: scored}
	}

	ranked := append([]domain.SentenceScore(nil), scored...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Position < ranked[j].Position
	})
	selected := ranked[:maxSentences]
	sort.Slice(selected, func(i, j int) bool { return selected[i].Position < selected[j].Position })

	parts := make([]string, len(selected))
	for i, sc := range selected {
		parts[i] = sc.Text
	}
	summary := strings.Join(parts, " ")
	textLen := utf8.RuneCountInString(text)
	if utf8.RuneCountInString(summary) >= textLen {
		return domain.Summary{Summary: text, CompressionRatio: 1, Sentences: scored}
	}
	return domain.Summary{
		Summary:          summary,
		CompressionRatio: float64(utf8.RuneCountInString(summary)) / float64(textLen),
		Sentences:        scored,
	}
}

// SummarizeToLength picks the sentence budget from the ratio of targetChars
// to the text length, keeping at least one sentence.
func (s *FrequencySummarizer) SummarizeToLength(text string, targetChars int) domain.Summary {
	textLen := utf8.RuneCountInString(strings.TrimSpace(text))
	if textLen == 0 {
		return domain.Summary{}
	}
	if targetChars <= 0 || targetChars >= textLen {
		return domain.Summary{Summary: text, CompressionRatio: 1}
	}
	count := len(s.chunker.Split(text))
	n := int(float64(count) * float64(targetChars) / float64(textLen))
	if n < 1 {
		n = 1
	}
	return s.Summarize(text, n)
}

// Score returns every sentence of text with its score, in source order.
func (s *FrequencySummarizer) Score(text string) []domain.SentenceScore {
	sentences := s.chunker.Split(text)
	if len(sentences) == 0 {
		return nil
	}

	tokens := make([]domain.TokenSequence, len(sentences))
	freq := map[string]float64{}
	for i, sent := range sentences {
		tokens[i] = s.normalizer.Normalize(sent.Text)
		for _, tok := range tokens[i] {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	tf := make([]float64, len(sentences))
	maxTF := 0.0
	for i, toks := range tokens {
		sum := 0.0
		for _, tok := range toks {
			sum += freq[tok]
		}
		if l := float64(len(toks)); l > 0 {
			sum /= math.Sqrt(l)
		}
		tf[i] = sum
		if sum > maxTF {
			maxTF = sum
		}
	}

	out := make([]domain.SentenceScore, len(sentences))
	last := len(sentences) - 1
	for i, sent := range sentences {
		f := 0.0
		if maxTF > 0 {
			f = tf[i] / maxTF
		}
		pos := 0.0
		if i == 0 || i == last {
			pos = 1
		}
		out[i] = domain.SentenceScore{
			Text:     sent.Text,
			Position: i,
			Score:    weightFrequency*f + weightPosition*pos + weightLength*lengthFactor(len(strings.Fields(sent.Text))),
		}
	}
	return out
}

func lengthFactor(words int) float64 {
	switch {
	case words <= 0:
		return 0
	case words < minIdealWords:
		return float64(words) / minIdealWords
	case words > maxIdealWords:
		return maxIdealWords / float64(words)
	}
	return 1
}
