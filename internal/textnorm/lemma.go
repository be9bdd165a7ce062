package textnorm

import (
	"strings"
	"unicode/utf8"
)

// irregular maps plural forms the suffix rules get wrong. Every value is a
// fixed point of Lemmatize.
var irregular = map[string]string{
	"analyses":   "analysis",
	"atlas":      "atlas",
	"bacteria":   "bacterium",
	"bias":       "bias",
	"children":   "child",
	"criteria":   "criterion",
	"feet":       "foot",
	"geese":      "goose",
	"hypotheses": "hypothesis",
	"indices":    "index",
	"lens":       "lens",
	"matrices":   "matrix",
	"men":        "man",
	"mice":       "mouse",
	"news":       "news",
	"people":     "person",
	"phenomena":  "phenomenon",
	"series":     "series",
	"species":    "species",
	"teeth":      "tooth",
	"theses":     "thesis",
	"vertices":   "vertex",
	"women":      "woman",
}

// Lemmatize reduces an English noun to its singular form. It is idempotent:
// Lemmatize(Lemmatize(w)) == Lemmatize(w).
func Lemmatize(w string) string {
	w = strings.TrimSuffix(w, "'s")
	if l, ok := irregular[w]; ok {
		return l
	}
	l := singular(w)
	if irr, ok := irregular[l]; ok {
		return irr
	}
	return l
}

func singular(w string) string {
	if utf8.RuneCountInString(w) <= 3 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "zzes"):
		return w[:len(w)-3]
	case strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ics"),
		strings.HasSuffix(w, "ss"),
		strings.HasSuffix(w, "us"),
		strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}
