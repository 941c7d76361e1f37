package reconcile

import (
	"slices"
	"strings"
)

// Normalize prepares a name for matching: "&" becomes "And", letters are
// uppercased and everything outside A-Z and 0-9 is removed.
func Normalize(s string) string {
	s = strings.ToUpper(strings.ReplaceAll(s, "&", "And"))

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

type candidate struct {
	name       string
	normalized string
}

// Matcher resolves style labels against a fixed set of model names.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	candidates []candidate
}

// NewMatcher indexes the model names of one make.
// A name that normalizes to nothing is a prefix of every label, so it only
// wins when no longer candidate qualifies. When two names normalize
// identically the lexicographically smaller name is kept.
func NewMatcher(models []string) *Matcher {
	byForm := make(map[string]string, len(models))
	for _, name := range models {
		form := Normalize(name)
		if existing, ok := byForm[form]; !ok || name < existing {
			byForm[form] = name
		}
	}

	m := &Matcher{candidates: make([]candidate, 0, len(byForm))}
	for form, name := range byForm {
		m.candidates = append(m.candidates, candidate{name: name, normalized: form})
	}
	slices.SortFunc(m.candidates, func(a, b candidate) int {
		return strings.Compare(a.normalized, b.normalized)
	})
	return m
}

// Match returns the model name a style label belongs to.
func (m *Matcher) Match(label string) (string, bool) {
	target := Normalize(label)
	if target == "" {
		return "", false
	}

	var prefixed []candidate
	for _, c := range m.candidates {
		if strings.HasPrefix(target, c.normalized) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0].name, true
	}

	var contained []candidate
	for _, c := range m.candidates {
		if strings.Contains(target, c.normalized) {
			contained = append(contained, c)
		}
	}
	switch len(contained) {
	case 0:
		return "", false
	case 1:
		return contained[0].name, true
	}
	return longest(contained).name, true
}

// Candidates returns the indexed model names sorted by normalized form.
func (m *Matcher) Candidates() []string {
	names := make([]string, len(m.candidates))
	for i, c := range m.candidates {
		names[i] = c.name
	}
	return names
}

func longest(cs []candidate) candidate {
	best := cs[0]
	for _, c := range cs[1:] {
		if len(c.normalized) > len(best.normalized) ||
			(len(c.normalized) == len(best.normalized) && c.normalized < best.normalized) {
			best = c
		}
	}
	return best
}

// Match resolves one style label against a set of model names.
func Match(label string, models []string) (string, bool) {
	return NewMatcher(models).Match(label)
}
