// Package query answers read-side questions over a loaded carmap dataset:
// which makes existed in a year, which models a make offered, and which
// style labels a model carried.
package query

import (
	"slices"
	"strings"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Index is an in-memory view of a dataset. It does not copy the makes.
type Index struct {
	makes  []*vehicles.Make
	bySlug map[string]*vehicles.Make
	byName map[string]*vehicles.Make
}

// New indexes makes by slug and by upper-cased name.
func New(makes []*vehicles.Make) *Index {
	ix := &Index{
		makes:  append(make([]*vehicles.Make, 0, len(makes)), makes...),
		bySlug: make(map[string]*vehicles.Make, len(makes)),
		byName: make(map[string]*vehicles.Make, len(makes)),
	}
	vehicles.SortBySlug(ix.makes)
	for _, m := range ix.makes {
		ix.bySlug[m.Slug] = m
		ix.byName[strings.ToUpper(m.Name)] = m
	}
	return ix
}

// Makes returns every make sorted by slug.
func (ix *Index) Makes() []*vehicles.Make {
	return ix.makes
}

// MakeByName finds a make by name, case-insensitively, or by slug.
func (ix *Index) MakeByName(name string) (*vehicles.Make, error) {
	name = strings.TrimSpace(name)
	if m, ok := ix.byName[strings.ToUpper(name)]; ok {
		return m, nil
	}
	if m, ok := ix.bySlug[vehicles.Slugify(name)]; ok {
		return m, nil
	}
	return nil, errors.NewNotFoundError("make", name)
}

// MakesForYear returns the makes whose span contains year.
func (ix *Index) MakesForYear(year int) []*vehicles.Make {
	var out []*vehicles.Make
	for _, m := range ix.makes {
		if m.HasYear(year) {
			out = append(out, m)
		}
	}
	return out
}

// ModelsForYear returns the models of a make present in year, sorted by name.
func (ix *Index) ModelsForYear(year int, makeName string) ([]*vehicles.Model, error) {
	m, err := ix.MakeByName(makeName)
	if err != nil {
		return nil, err
	}
	var out []*vehicles.Model
	for _, name := range m.ModelNames() {
		if model := m.Models[name]; model.Years.Contains(year) {
			out = append(out, model)
		}
	}
	return out, nil
}

// Model returns a model of a make by exact name.
func (ix *Index) Model(makeName, modelName string) (*vehicles.Model, error) {
	m, err := ix.MakeByName(makeName)
	if err != nil {
		return nil, err
	}
	model, ok := m.Models[modelName]
	if !ok {
		return nil, errors.NewNotFoundError("model", m.Name+" "+modelName)
	}
	return model, nil
}

// StylesForYear returns the sorted style labels of a model that cover year.
func (ix *Index) StylesForYear(year int, makeName, modelName string) ([]string, error) {
	model, err := ix.Model(makeName, modelName)
	if err != nil {
		return nil, err
	}
	var out []string
	for label, style := range model.Styles {
		if style != nil && style.Years.Contains(year) {
			out = append(out, label)
		}
	}
	slices.Sort(out)
	return out, nil
}
