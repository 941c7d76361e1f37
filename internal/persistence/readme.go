package persistence

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// README section markers. The text between them is replaced by the stats block.
const (
	StatsStartMarker = "## What it contains"
	StatsEndMarker   = "## How to use it"
)

// Stats summarizes the dataset for the README.
type Stats struct {
	Makes     int
	Models    int
	Styles    int
	FirstYear int
	LastYear  int
	Updated   time.Time
}

// Stats counts the makes, models and style labels of the persisted dataset.
// Style labels are counted from the style files.
func (s *Store) Stats() (Stats, error) {
	makes, err := s.LoadDataset()
	if err != nil {
		return Stats{}, err
	}
	return StatsFor(makes, time.Now()), nil
}

// StatsFor counts an in-memory tree. The year range covers every make with a span.
func StatsFor(makes []*vehicles.Make, updated time.Time) Stats {
	stats := Stats{Makes: len(makes), Updated: updated}
	for _, m := range makes {
		stats.Models += len(m.Models)
		stats.Styles += m.StyleCount()
		if first, last, ok := m.Span(); ok {
			if stats.FirstYear == 0 || first < stats.FirstYear {
				stats.FirstYear = first
			}
			if last > stats.LastYear {
				stats.LastYear = last
			}
		}
	}
	return stats
}

// Render formats the stats block placed between the README markers.
func (st Stats) Render() string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "* %d makes, e.g.'Toyota'\n", st.Makes)
	fmt.Fprintf(&b, "* %d models, e.g. 'Prius V'\n", st.Models)
	fmt.Fprintf(&b, "* %d styles, e.g. 'PRIUS V 5DR HATCHBACK'\n", st.Styles)
	fmt.Fprintf(&b, "* Supports years from %d to %d\n", st.FirstYear, st.LastYear)
	fmt.Fprintf(&b, "* Last updated %s\n", st.Updated.Format("January 02, 2006"))
	b.WriteString("\n")
	return b.String()
}

// ReplaceStats swaps the text between the README markers for the stats block.
func ReplaceStats(readme string, st Stats) (string, error) {
	start := strings.Index(readme, StatsStartMarker)
	if start < 0 {
		return "", errors.NewValidationError("readme", StatsStartMarker, "marker not found")
	}
	bodyStart := start + len(StatsStartMarker)
	end := strings.Index(readme[bodyStart:], StatsEndMarker)
	if end < 0 {
		return "", errors.NewValidationError("readme", StatsEndMarker, "marker not found after "+StatsStartMarker)
	}
	return readme[:bodyStart] + st.Render() + readme[bodyStart+end:], nil
}

// UpdateReadme rewrites the stats section of the README at path.
func UpdateReadme(path string, st Stats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	updated, err := ReplaceStats(string(data), st)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(updated), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
