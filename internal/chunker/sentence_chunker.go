// Package chunker splits text into sentences with their source offsets.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is one segment of a text. Start and End are byte offsets into
// the original text such that text[Start:End] == Text.
type Sentence struct {
	Text  string
	Start int
	End   int
	Index int
}

// Option configures a SentenceChunker.
type Option func(*SentenceChunker)

// WithMinChars drops sentences of n characters or fewer after trimming.
func WithMinChars(n int) Option {
	return func(c *SentenceChunker) {
		if n > 0 {
			c.minChars = n
		}
	}
}

// WithAbbreviations replaces the words whose trailing period does not end a
// sentence. Words are matched case-insensitively without the period.
func WithAbbreviations(words ...string) Option {
	return func(c *SentenceChunker) {
		c.abbrevs = make(map[string]struct{}, len(words))
		for _, w := range words {
			c.abbrevs[strings.ToLower(w)] = struct{}{}
		}
	}
}

// DefaultAbbreviations are titles and Latin shorthands that rarely end a
// sentence.
var DefaultAbbreviations = []string{"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "vs", "e.g", "i.e", "cf", "fig"}

// SentenceChunker segments text on terminal punctuation followed by
// whitespace or the end of the text. Text after the last terminator is kept
// as a final sentence.
type SentenceChunker struct {
	terminator *regexp.Regexp
	abbrevs    map[string]struct{}
	minChars   int
}

func NewSentenceChunker(opts ...Option) *SentenceChunker {
	c := &SentenceChunker{
		terminator: regexp.MustCompile(`[.!?]+["'’”)\]]*`),
	}
	WithAbbreviations(DefaultAbbreviations...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Split returns the sentences of text in source order. Segments without any
// letter or digit, or no longer than the minimum length, are dropped.
func (c *SentenceChunker) Split(text string) []Sentence {
	var out []Sentence
	add := func(start, end int) {
		raw := text[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || !strings.ContainsFunc(trimmed, isWordRune) {
			return
		}
		if utf8.RuneCountInString(trimmed) <= c.minChars {
			return
		}
		lead := strings.Index(raw, trimmed)
		out = append(out, Sentence{
			Text:  trimmed,
			Start: start + lead,
			End:   start + lead + len(trimmed),
			Index: len(out),
		})
	}
	start := 0
	for _, loc := range c.terminator.FindAllStringIndex(text, -1) {
		if !c.boundary(text, loc) {
			continue
		}
		add(start, loc[1])
		start = loc[1]
	}
	if start < len(text) {
		add(start, len(text))
	}
	return out
}

// boundary reports whether the terminator at loc ends a sentence: it must be
// followed by whitespace or the end of text, and a lone period must not
// follow an abbreviation.
func (c *SentenceChunker) boundary(text string, loc []int) bool {
	if loc[1] < len(text) {
		r, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if !unicode.IsSpace(r) {
			return false
		}
	}
	if strings.TrimRight(text[loc[0]:loc[1]], `"'’”)]`) != "." {
		return true
	}
	word := text[strings.LastIndexFunc(text[:loc[0]], unicode.IsSpace)+1 : loc[0]]
	word = strings.TrimLeftFunc(word, func(r rune) bool { return !isWordRune(r) })
	_, abbrev := c.abbrevs[strings.ToLower(word)]
	return !abbrev
}

// Texts returns just the sentence strings of text.
func (c *SentenceChunker) Texts(text string) []string {
	sentences := c.Split(text)
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
