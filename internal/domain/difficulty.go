package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the binary difficulty label.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
)

// ParseDifficulty maps a corpus label onto the two trained classes.
// "hard" folds into Medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "hard":
		return Medium, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// Class returns the 0/1 target used by the classifier.
func (d Difficulty) Class() int {
	if d == Easy {
		return 0
	}
	return 1
}

// DifficultyFromClass is the inverse of Class.
func DifficultyFromClass(c int) Difficulty {
	if c == 0 {
		return Easy
	}
	return Medium
}
