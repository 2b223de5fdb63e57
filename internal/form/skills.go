package form

import "strings"

// DefaultSuggestions is the predefined skill list offered by a new form.
var DefaultSuggestions = []string{
	"UX/UI Design",
	"PHP Development",
	"JavaScript",
	"Angular",
}

// Skills is an ordered set of skill tags. Matching is exact and case-sensitive.
type Skills struct {
	items []string
}

// NewSkills builds a collection from values, dropping blanks and duplicates.
func NewSkills(values []string) Skills {
	var s Skills
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add appends v unless it is blank or already present. It reports whether v was added.
func (s *Skills) Add(v string) bool {
	if isBlank(v) || s.Contains(v) {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Remove deletes the entry at index i. Out-of-range indexes are ignored.
func (s *Skills) Remove(i int) bool {
	if i < 0 || i >= len(s.items) {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Contains reports whether v is in the collection.
func (s Skills) Contains(v string) bool {
	for _, item := range s.items {
		if item == v {
			return true
		}
	}
	return false
}

// Len returns the number of skills.
func (s Skills) Len() int {
	return len(s.items)
}

// Values returns a copy of the skills in insertion order. Never nil.
func (s Skills) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func isBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

func containsExact(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
