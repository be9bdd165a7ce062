// Package corpus loads labeled educational texts for training.
package corpus

import (
	"bufio"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"studypal/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// ErrUnsupportedFormat is returned for corpus files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported corpus format")

// Seed returns the built-in sample corpus.
func Seed() []domain.Document {
	docs, err := decodeYAML(strings.NewReader(string(seedYAML)))
	if err != nil {
		panic(fmt.Sprintf("corrupt seed corpus: %v", err))
	}
	return docs
}

// Load reads a corpus from path, choosing the format by extension
// (.csv, .yaml/.yml, .jsonl). An empty path yields the seed corpus.
func Load(path string) ([]domain.Document, error) {
	if path == "" {
		return Seed(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	var docs []domain.Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		docs, err = decodeCSV(f)
	case ".yaml", ".yml":
		docs, err = decodeYAML(f)
	case ".jsonl", ".ndjson":
		docs, err = decodeJSONL(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	return docs, nil
}

func validate(d domain.Document, where string) error {
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("%s: empty text", where)
	}
	if d.Difficulty != "" {
		if _, err := domain.ParseDifficulty(d.Difficulty); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
	}
	return nil
}

// decodeCSV expects a header naming at least a text column; subject, topic
// and difficulty are optional and may appear in any order.
func decodeCSV(r io.Reader) ([]domain.Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["text"]; !ok {
		return nil, errors.New("csv header has no text column")
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var docs []domain.Document
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		d := domain.Document{
			Subject:    field(rec, "subject"),
			Topic:      field(rec, "topic"),
			Text:       field(rec, "text"),
			Difficulty: field(rec, "difficulty"),
		}
		if err := validate(d, fmt.Sprintf("line %d", line)); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// decodeYAML accepts either a bare list of documents or a mapping with a
// documents key.
func decodeYAML(r io.Reader) ([]domain.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	if err := yaml.Unmarshal(data, &docs); err != nil {
		var wrapped struct {
			Documents []domain.Document `yaml:"documents"`
		}
		if err2 := yaml.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		docs = wrapped.Documents
	}
	for i, d := range docs {
		if err := validate(d, fmt.Sprintf("document %d", i+1)); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func decodeJSONL(r io.Reader) ([]domain.Document, error) {
	var docs []domain.Document
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var d domain.Document
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := validate(d, fmt.Sprintf("line %d", line)); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

var spaceRun = regexp.MustCompile(`\s+`)

// Clean drops documents whose text repeats an earlier one, lowercases the
// text and collapses whitespace. The input slice is not modified.
func Clean(docs []domain.Document) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.Text]; dup {
			continue
		}
		seen[d.Text] = struct{}{}
		d.Text = spaceRun.ReplaceAllString(strings.TrimSpace(strings.ToLower(d.Text)), " ")
		out = append(out, d)
	}
	return out
}

// Stats is a descriptive summary of a corpus.
type Stats struct {
	Total            int            `json:"total_texts" yaml:"total_texts"`
	Subjects         int            `json:"subjects" yaml:"subjects"`
	Topics           int            `json:"topics" yaml:"topics"`
	AvgTextLength    float64        `json:"avg_text_length" yaml:"avg_text_length"`
	SubjectCounts    map[string]int `json:"subject_counts" yaml:"subject_counts"`
	DifficultyCounts map[string]int `json:"difficulty_counts" yaml:"difficulty_counts"`
}

// Describe computes Stats for docs.
func Describe(docs []domain.Document) Stats {
	s := Stats{
		Total:            len(docs),
		SubjectCounts:    map[string]int{},
		DifficultyCounts: map[string]int{},
	}
	topics := map[string]struct{}{}
	chars := 0
	for _, d := range docs {
		s.SubjectCounts[d.Subject]++
		if d.Difficulty != "" {
			s.DifficultyCounts[strings.ToLower(d.Difficulty)]++
		}
		topics[d.Topic] = struct{}{}
		chars += len([]rune(d.Text))
	}
	s.Subjects = len(s.SubjectCounts)
	s.Topics = len(topics)
	if len(docs) > 0 {
		s.AvgTextLength = float64(chars) / float64(len(docs))
	}
	return s
}

// SubjectNames returns the distinct subjects of docs, sorted.
func SubjectNames(docs []domain.Document) []string {
	set := map[string]struct{}{}
	for _, d := range docs {
		set[d.Subject] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
