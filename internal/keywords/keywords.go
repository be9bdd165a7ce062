// Package keywords ranks the most frequent terms of a token sequence.
package keywords

import (
	"sort"

	"studypal/internal/domain"
)

// DefaultN is the keyword count used when n <= 0.
const DefaultN = 5

// Keyword is a term and how often it occurs.
type Keyword struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Top returns up to n distinct terms ordered by descending count, ties
// broken lexicographically.
func Top(tokens domain.TokenSequence, n int) []Keyword {
	if n <= 0 {
		n = DefaultN
	}
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	out := make([]Keyword, 0, len(counts))
	for term, c := range counts {
		out = append(out, Keyword{Term: term, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopKeywords is Top without the counts.
func TopKeywords(tokens domain.TokenSequence, n int) []string {
	top := Top(tokens, n)
	out := make([]string, len(top))
	for i, k := range top {
		out[i] = k.Term
	}
	return out
}
