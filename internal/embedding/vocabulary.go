package embedding

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"studypal/internal/domain"
)

// ErrEmptyVocabulary is returned when a corpus contains no usable tokens.
var ErrEmptyVocabulary = errors.New("no tokens found in corpus")

// CorpusStats are the document statistics frozen at vocabulary build time.
// DocFreq is indexed like Vocabulary.Terms.
type CorpusStats struct {
	DocFreq []int
	NumDocs int
}

// Vocabulary is an ordered, frozen term set. It is never mutated after
// construction and may be shared by concurrent readers.
type Vocabulary struct {
	version string
	terms   []string
	index   map[string]int
	stats   CorpusStats
}

// BuildVocabulary keeps the maxTerms most frequent terms of the corpus.
// Terms are ordered by descending total count, ties broken lexicographically.
func BuildVocabulary(docs []domain.TokenSequence, maxTerms int) (*Vocabulary, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("build vocabulary: %w", ErrEmptyVocabulary)
	}
	counts := make(map[string]int)
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			counts[tok]++
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("build vocabulary: %w", ErrEmptyVocabulary)
	}
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		ci, cj := counts[terms[i]], counts[terms[j]]
		if ci != cj {
			return ci > cj
		}
		return terms[i] < terms[j]
	})
	if maxTerms > 0 && len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}
	docFreq := make([]int, len(terms))
	for i, term := range terms {
		docFreq[i] = df[term]
	}
	return newVocabulary(uuid.NewString(), terms, CorpusStats{DocFreq: docFreq, NumDocs: len(docs)})
}

// RestoreVocabulary rebuilds a vocabulary from persisted state.
func RestoreVocabulary(version string, terms []string, stats CorpusStats) (*Vocabulary, error) {
	if version == "" {
		return nil, errors.New("restore vocabulary: missing version")
	}
	if len(stats.DocFreq) != len(terms) {
		return nil, fmt.Errorf("restore vocabulary: %d terms but %d document frequencies", len(terms), len(stats.DocFreq))
	}
	return newVocabulary(version, terms, stats)
}

func newVocabulary(version string, terms []string, stats CorpusStats) (*Vocabulary, error) {
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		if _, dup := index[term]; dup {
			return nil, fmt.Errorf("duplicate vocabulary term %q", term)
		}
		index[term] = i
	}
	return &Vocabulary{
		version: version,
		terms:   append([]string(nil), terms...),
		index:   index,
		stats: CorpusStats{
			DocFreq: append([]int(nil), stats.DocFreq...),
			NumDocs: stats.NumDocs,
		},
	}, nil
}

// Version identifies this term-index mapping.
func (v *Vocabulary) Version() string { return v.version }

// Len returns the number of terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Terms returns a copy of the ordered terms.
func (v *Vocabulary) Terms() []string { return append([]string(nil), v.terms...) }

// Stats returns a copy of the corpus statistics.
func (v *Vocabulary) Stats() CorpusStats {
	return CorpusStats{DocFreq: append([]int(nil), v.stats.DocFreq...), NumDocs: v.stats.NumDocs}
}

// Index returns the position of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// IDF is the smoothed inverse document frequency of term i.
func (v *Vocabulary) IDF(i int) float64 {
	n := float64(v.stats.NumDocs)
	return math.Log((1+n)/(1+float64(v.stats.DocFreq[i]))) + 1.0
}

// Overlap counts tokens of the sequence present in the vocabulary.
func (v *Vocabulary) Overlap(tokens domain.TokenSequence) int {
	n := 0
	for _, tok := range tokens {
		if _, ok := v.index[tok]; ok {
			n++
		}
	}
	return n
}
