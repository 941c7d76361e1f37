package output

import (
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/vehicles"
)

func yearCell(y *int) string {
	if y == nil {
		return "-"
	}
	return strconv.Itoa(*y)
}

// yearsCell renders years as compact runs, e.g. "2001-2003, 2006".
func yearsCell(years vehicles.Years) string {
	if len(years) == 0 {
		return "-"
	}
	var parts []string
	start, prev := years[0], years[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
			return
		}
		parts = append(parts, strconv.Itoa(start)+"-"+strconv.Itoa(prev))
	}
	for _, y := range years[1:] {
		if y == prev+1 {
			prev = y
			continue
		}
		flush()
		start, prev = y, y
	}
	flush()
	return strings.Join(parts, ", ")
}

// MakesTable lists makes with their span and model counts.
func MakesTable(makes []*vehicles.Make) *Data {
	data := &Data{
		Headers:         []string{"Slug", "Name", "ID", "First Year", "Last Year", "Models", "Styles"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	}
	for _, m := range makes {
		data.Rows = append(data.Rows, []string{
			m.Slug,
			m.Name,
			strconv.Itoa(m.ID),
			yearCell(m.FirstYear),
			yearCell(m.LastYear),
			strconv.Itoa(len(m.Models)),
			strconv.Itoa(m.StyleCount()),
		})
	}
	return data
}

// ModelsTable lists models with their type and production years.
func ModelsTable(models []*vehicles.Model) *Data {
	data := &Data{
		Headers:         []string{"Name", "ID", "Type", "Years", "Styles"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignRight},
	}
	for _, m := range models {
		data.Rows = append(data.Rows, []string{
			m.Name,
			strconv.Itoa(m.ID),
			m.VehicleType.String(),
			yearsCell(m.Years),
			strconv.Itoa(m.Styles.Count()),
		})
	}
	return data
}

// StylesTable lists the style labels of a model.
func StylesTable(styles vehicles.Styles) *Data {
	labels := make([]string, 0, len(styles))
	for label := range styles {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	data := &Data{Headers: []string{"Style", "Years"}}
	for _, label := range labels {
		data.Rows = append(data.Rows, []string{label, yearsCell(styles[label].Years)})
	}
	return data
}

// OrphansTable lists unmatched style labels by make name.
func OrphansTable(report vehicles.OrphanReport) *Data {
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	slices.Sort(names)

	data := &Data{Headers: []string{"Make", "Style"}}
	for _, name := range names {
		for _, label := range report[name].OrphanedStyles {
			data.Rows = append(data.Rows, []string{name, label})
		}
	}
	return data
}

// ReviewTable lists makes waiting for allow/deny curation.
func ReviewTable(entries []classify.ReviewEntry) *Data {
	data := &Data{
		Headers:         []string{"Slug", "Name", "ID", "Passenger", "Vehicle Types"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft},
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, []string{
			e.MakeSlug,
			e.MakeName,
			strconv.Itoa(e.MakeID),
			strconv.FormatBool(e.Passenger),
			strings.Join(e.VehicleTypes, ", "),
		})
	}
	return data
}
