package vehicles

import (
	"slices"
	"strings"

	"github.com/agentstation/carmap/pkg/errors"
)

// Make is a vehicle manufacturer with its models and observed year span.
// FirstYear and LastYear are nil until some model shows presence.
type Make struct {
	ID        int               `json:"make_id"`
	Name      string            `json:"make_name"`
	Slug      string            `json:"make_slug"`
	FirstYear *int              `json:"first_year"`
	LastYear  *int              `json:"last_year"`
	Models    map[string]*Model `json:"models"`
}

// NewMake builds a make with an empty model map. The slug is derived from name.
func NewMake(id int, name string) *Make {
	name = strings.TrimSpace(name)
	return &Make{
		ID:     id,
		Name:   name,
		Slug:   Slugify(name),
		Models: make(map[string]*Model),
	}
}

// Span returns the make's year span.
func (m *Make) Span() (first, last int, ok bool) {
	if m.FirstYear == nil || m.LastYear == nil {
		return 0, 0, false
	}
	return *m.FirstYear, *m.LastYear, true
}

// SetSpan sets the year span; first must not exceed last.
func (m *Make) SetSpan(first, last int) error {
	if first > last {
		return errors.NewValidationError("first_year", first, "must not exceed last_year")
	}
	m.FirstYear = &first
	m.LastYear = &last
	return nil
}

// ClearSpan unsets the year span.
func (m *Make) ClearSpan() {
	m.FirstYear = nil
	m.LastYear = nil
}

// HasYear reports whether year falls inside the span.
func (m *Make) HasYear(year int) bool {
	first, last, ok := m.Span()
	return ok && first <= year && year <= last
}

// ModelNames returns the model names sorted.
func (m *Make) ModelNames() []string {
	names := make([]string, 0, len(m.Models))
	for name := range m.Models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// StyleCount returns the number of style labels across all models.
func (m *Make) StyleCount() int {
	count := 0
	for _, model := range m.Models {
		count += model.Styles.Count()
	}
	return count
}

// Validate checks the make's invariants and those of its models.
func (m *Make) Validate() error {
	if m.Slug == "" {
		return errors.NewValidationError("make_slug", m.Slug, "is required")
	}
	if (m.FirstYear == nil) != (m.LastYear == nil) {
		return errors.NewValidationError("first_year", m.FirstYear, "first_year and last_year must be set together")
	}
	if first, last, ok := m.Span(); ok && first > last {
		return errors.NewValidationError("first_year", first, "must not exceed last_year")
	}
	for name, model := range m.Models {
		if err := model.Validate(); err != nil {
			return errors.WrapResource("validate", "model", name, err)
		}
	}
	return nil
}

// SortBySlug sorts makes by slug in place.
func SortBySlug(makes []*Make) {
	slices.SortFunc(makes, func(a, b *Make) int {
		return strings.Compare(a.Slug, b.Slug)
	})
}
