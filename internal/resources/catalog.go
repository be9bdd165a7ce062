// Package resources holds the static study-resource catalog.
package resources

import "studypal/internal/domain"

// MaxPerSubject bounds a single subject lookup.
const MaxPerSubject = 4

// Catalog maps subjects to study resources. The zero value is empty; use
// Default for the built-in table.
type Catalog struct {
	bySubject map[domain.Subject][]domain.ResourceDescriptor
	fallback  []domain.ResourceDescriptor
}

// New builds a catalog from explicit tables.
func New(bySubject map[domain.Subject][]domain.ResourceDescriptor, fallback []domain.ResourceDescriptor) *Catalog {
	c := &Catalog{bySubject: make(map[domain.Subject][]domain.ResourceDescriptor, len(bySubject))}
	for s, list := range bySubject {
		c.bySubject[s] = append([]domain.ResourceDescriptor(nil), list...)
	}
	c.fallback = append([]domain.ResourceDescriptor(nil), fallback...)
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	science := []domain.ResourceDescriptor{
		{Name: "Khan Academy - Science", URL: "https://www.khanacademy.org/science", Type: "Video Tutorials"},
		{Name: "National Geographic", URL: "https://www.nationalgeographic.com", Type: "Educational Content"},
		{Name: "Science Daily", URL: "https://www.sciencedaily.com", Type: "News & Articles"},
		{Name: "NASA Education", URL: "https://www.nasa.gov/education", Type: "Educational Resources"},
	}
	return New(map[domain.Subject][]domain.ResourceDescriptor{
		domain.SubjectMathematics: {
			{Name: "Khan Academy - Math", URL: "https://www.khanacademy.org/math", Type: "Video Tutorials"},
			{Name: "Math is Fun", URL: "https://www.mathsisfun.com", Type: "Interactive Lessons"},
			{Name: "Wolfram Alpha", URL: "https://www.wolframalpha.com", Type: "Problem Solver"},
			{Name: "Brilliant - Math", URL: "https://brilliant.org/courses/math", Type: "Practice Problems"},
		},
		domain.SubjectScience:   science,
		domain.SubjectPhysics:   science,
		domain.SubjectChemistry: science,
		domain.SubjectBiology:   science,
		domain.SubjectHistory: {
			{Name: "History.com", URL: "https://www.history.com", Type: "Articles & Videos"},
			{Name: "BBC History", URL: "https://www.bbc.co.uk/history", Type: "Educational Content"},
			{Name: "National Archives", URL: "https://www.archives.gov/education", Type: "Primary Sources"},
			{Name: "Crash Course History", URL: "https://www.youtube.com/crashcourse", Type: "Video Series"},
		},
	}, []domain.ResourceDescriptor{
		{Name: "Coursera", URL: "https://www.coursera.org", Type: "Online Courses"},
		{Name: "edX", URL: "https://www.edx.org", Type: "Online Courses"},
		{Name: "YouTube Education", URL: "https://www.youtube.com/education", Type: "Video Tutorials"},
		{Name: "Wikipedia", URL: "https://www.wikipedia.org", Type: "Reference"},
	})
}

// ForSubject returns up to MaxPerSubject resources for s, or the general
// list when the subject has no table.
func (c *Catalog) ForSubject(s domain.Subject) []domain.ResourceDescriptor {
	list, ok := c.bySubject[s]
	if !ok {
		list = c.fallback
	}
	if len(list) > MaxPerSubject {
		list = list[:MaxPerSubject]
	}
	return append([]domain.ResourceDescriptor(nil), list...)
}

// All returns every distinct resource, subject tables in Subject order
// followed by the general list.
func (c *Catalog) All() []domain.ResourceDescriptor {
	var out []domain.ResourceDescriptor
	seen := make(map[string]struct{})
	add := func(list []domain.ResourceDescriptor) {
		for _, r := range list {
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			out = append(out, r)
		}
	}
	for s := domain.SubjectOther; s <= domain.SubjectBiology; s++ {
		add(c.bySubject[s])
	}
	add(c.fallback)
	return out
}

// Merge concatenates lists, keeping the first occurrence of each URL, and
// truncates to limit when limit > 0.
func Merge(limit int, lists ...[]domain.ResourceDescriptor) []domain.ResourceDescriptor {
	out := []domain.ResourceDescriptor{}
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, r := range list {
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			out = append(out, r)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}
