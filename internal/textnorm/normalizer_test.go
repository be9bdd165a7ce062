package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBasic(t *testing.T) {
	n := New(0)

	got := n.Normalize("The Equations of Algebra help students solve problems!")
	assert.Equal(t, []string{"equation", "algebra", "help", "student", "solve", "problem"}, []string(got))
}

func TestNormalizeEmpty(t *testing.T) {
	n := New(0)
	assert.Empty(t, n.Normalize(""))
	assert.Empty(t, n.Normalize("   \n\t "))
	assert.NotNil(t, n.Normalize(""))
}

func TestNormalizeDropsNonAlphabetic(t *testing.T) {
	n := New(0)
	got := n.Normalize("42 + 17 = 59 ... !!! x")
	assert.Empty(t, got)
}

func TestNormalizeFoldsDiacriticsAndApostrophes(t *testing.T) {
	n := New(0)
	assert.Equal(t, n.Normalize("cafe resume"), n.Normalize("Café Résumé"))
	assert.Equal(t, []string{"newton", "law"}, []string(n.Normalize("Newton’s laws")))
	assert.Empty(t, n.Normalize("don't won't isn't"))
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(0)
	inputs := []string{
		"Physics is the natural science that studies matter, motion, and behavior through space and time.",
		"Children's classes covered quizzes, boxes, churches and the analyses of species.",
		"Mathematics uses symbols and letters to represent numbers and quantities in formulas.",
		"The Pokémon café's menus were studied by many people.",
		"",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(strings.Join(once, " "))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	a := New(0)
	b := New(0)
	text := "Statistics involves collecting, analyzing, and interpreting data."
	first := a.Normalize(text)
	_ = a.Normalize("something unrelated in between")
	assert.Equal(t, first, a.Normalize(text))
	assert.Equal(t, first, b.Normalize(text))
}

func TestLemmatize(t *testing.T) {
	cases := map[string]string{
		"studies":    "study",
		"classes":    "class",
		"boxes":      "box",
		"churches":   "church",
		"quizzes":    "quiz",
		"physics":    "physics",
		"analysis":   "analysis",
		"virus":      "virus",
		"equations":  "equation",
		"children":   "child",
		"children's": "child",
		"gas":        "gas",
		"formulas":   "formula",
		"species":    "species",
	}
	for in, want := range cases {
		got := Lemmatize(in)
		assert.Equal(t, want, got, "lemma of %q", in)
		assert.Equal(t, got, Lemmatize(got), "lemma of %q is not a fixed point", in)
	}
}

func TestNormalizeAll(t *testing.T) {
	n := New(0)
	out := n.NormalizeAll([]string{"cells divide", ""})
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"cell", "divide"}, []string(out[0]))
	assert.Empty(t, out[1])
}
