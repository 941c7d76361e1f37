package vehicles

import "strings"

// Slugify returns the canonical identifier for a free-text name: trimmed,
// lowercased, spaces and hyphens turned into underscores, and every other
// character outside [a-z0-9_] dropped. Slugify(Slugify(s)) == Slugify(s).
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
