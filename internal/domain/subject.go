package domain

import "strings"

// Subject is the finite set of subjects with dedicated templates and
// resources. Anything unrecognized is SubjectOther.
type Subject int

const (
	SubjectOther Subject = iota
	SubjectMathematics
	SubjectScience
	SubjectHistory
	SubjectEnglish
	SubjectPhysics
	SubjectChemistry
	SubjectBiology
)

var subjectNames = map[Subject]string{
	SubjectOther:       "Other",
	SubjectMathematics: "Mathematics",
	SubjectScience:     "Science",
	SubjectHistory:     "History",
	SubjectEnglish:     "English",
	SubjectPhysics:     "Physics",
	SubjectChemistry:   "Chemistry",
	SubjectBiology:     "Biology",
}

// Specific subjects are tried before the catch-all "Science".
var subjectOrder = []Subject{
	SubjectMathematics,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectHistory,
	SubjectEnglish,
	SubjectScience,
}

var subjectAbbreviations = map[string]Subject{
	"math":  SubjectMathematics,
	"maths": SubjectMathematics,
	"chem":  SubjectChemistry,
	"bio":   SubjectBiology,
	"phys":  SubjectPhysics,
	"hist":  SubjectHistory,
	"eng":   SubjectEnglish,
	"sci":   SubjectScience,
}

func (s Subject) String() string {
	if n, ok := subjectNames[s]; ok {
		return n
	}
	return subjectNames[SubjectOther]
}

// ParseSubject matches free-form user input to a Subject. Matching is case
// insensitive; exact names, containment in either direction and common
// abbreviations are accepted.
func ParseSubject(s string) Subject {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return SubjectOther
	}
	if sub, ok := subjectAbbreviations[in]; ok {
		return sub
	}
	for _, sub := range subjectOrder {
		name := strings.ToLower(sub.String())
		if in == name {
			return sub
		}
	}
	for _, sub := range subjectOrder {
		name := strings.ToLower(sub.String())
		if strings.Contains(name, in) || strings.Contains(in, name) {
			return sub
		}
	}
	return SubjectOther
}

// Subjects lists every named subject in declaration order, Other first.
func Subjects() []Subject {
	out := make([]Subject, 0, len(subjectNames))
	for s := SubjectOther; s <= SubjectBiology; s++ {
		out = append(out, s)
	}
	return out
}
