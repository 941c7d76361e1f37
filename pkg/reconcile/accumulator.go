package reconcile

import (
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Accumulator collects the styles of one make during a style pass.
// It owns the style maps it builds until Styles hands them off.
type Accumulator struct {
	makeName string
	matcher  *Matcher
	styles   map[string]vehicles.Styles
	orphans  []vehicles.OrphanEntry
	orphaned map[string]bool
}

// NewAccumulator starts an accumulation for makeName over its model names.
func NewAccumulator(makeName string, models []string) *Accumulator {
	styles := make(map[string]vehicles.Styles, len(models))
	for _, name := range models {
		styles[name] = vehicles.Styles{}
	}
	return &Accumulator{
		makeName: makeName,
		matcher:  NewMatcher(models),
		styles:   styles,
		orphaned: make(map[string]bool),
	}
}

// Add matches a style label seen in year and records it.
// It returns the model the label was attached to, or false for an orphan.
func (a *Accumulator) Add(label string, year int) (string, bool) {
	model, ok := a.matcher.Match(label)
	if !ok {
		a.Orphan(label, year)
		return "", false
	}
	a.Record(model, label, year)
	return model, true
}

// Record attaches label to model for year. Labels are never merged with each other,
// and repeating a (model, label, year) triple changes nothing.
func (a *Accumulator) Record(model, label string, year int) {
	styles, ok := a.styles[model]
	if !ok {
		styles = vehicles.Styles{}
		a.styles[model] = styles
	}
	record, ok := styles[label]
	if !ok {
		styles[label] = &vehicles.StyleRecord{Years: vehicles.Years{year}}
		return
	}
	record.Years.Add(year)
}

// Orphan records an unmatched label. Only the first occurrence of a label is kept.
func (a *Accumulator) Orphan(label string, year int) {
	if a.orphaned[label] {
		return
	}
	a.orphaned[label] = true
	a.orphans = append(a.orphans, vehicles.OrphanEntry{
		MakeName:   a.makeName,
		StyleLabel: label,
		Year:       year,
	})
}

// Styles hands off the style map of every model, including models without styles.
// The accumulator must not be used afterwards.
func (a *Accumulator) Styles() map[string]vehicles.Styles {
	styles := a.styles
	a.styles = nil
	return styles
}

// Orphans returns the unmatched labels in first-seen order.
func (a *Accumulator) Orphans() []vehicles.OrphanEntry {
	return a.orphans
}

// Report builds the review record of this make.
func (a *Accumulator) Report(models []string) *vehicles.MakeOrphans {
	labels := make([]string, len(a.orphans))
	for i, orphan := range a.orphans {
		labels[i] = orphan.StyleLabel
	}
	choices := make([]string, len(models))
	copy(choices, models)
	return &vehicles.MakeOrphans{
		ModelChoices:   choices,
		OrphanedStyles: labels,
	}
}
