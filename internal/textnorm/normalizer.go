// Package textnorm turns raw text into canonical token sequences:
// tokenize, lowercase, drop stopwords, lemmatize.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"studypal/internal/domain"
)

// DefaultMinTokenLength drops single-letter tokens.
const DefaultMinTokenLength = 2

var _ domain.Normalizer = (*Normalizer)(nil)

// Normalizer is safe for concurrent use; it holds no mutable state after
// construction.
type Normalizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
	minLength    int
}

// New creates a Normalizer. minLength <= 0 selects DefaultMinTokenLength.
func New(minLength int) *Normalizer {
	if minLength <= 0 {
		minLength = DefaultMinTokenLength
	}
	return &Normalizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:'\p{L}+)*`),
		stopwords:    defaultStopwords(),
		minLength:    minLength,
	}
}

// Normalize returns the token sequence for text. Empty or whitespace-only
// input yields an empty sequence.
func (n *Normalizer) Normalize(text string) domain.TokenSequence {
	if strings.TrimSpace(text) == "" {
		return domain.TokenSequence{}
	}
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	raw := n.tokenPattern.FindAllString(foldDiacritics(text), -1)
	out := make(domain.TokenSequence, 0, len(raw))
	for _, tok := range raw {
		if n.IsStopword(tok) {
			continue
		}
		lemma := Lemmatize(tok)
		if n.IsStopword(lemma) || utf8.RuneCountInString(lemma) < n.minLength {
			continue
		}
		out = append(out, lemma)
	}
	return out
}

// NormalizeAll normalizes every text of a corpus.
func (n *Normalizer) NormalizeAll(texts []string) []domain.TokenSequence {
	out := make([]domain.TokenSequence, len(texts))
	for i, t := range texts {
		out[i] = n.Normalize(t)
	}
	return out
}

// IsStopword reports whether tok (already lowercased) is a stopword.
func (n *Normalizer) IsStopword(tok string) bool {
	_, ok := n.stopwords[tok]
	return ok
}

func foldDiacritics(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFD.String(s))
}
