package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "table", want: FormatTable},
		{in: "", want: ""},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("Yaml"))
}

func TestJSONFormatterKeepsAmpersand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, map[string]string{"style": "A&B"}))
	assert.Contains(t, buf.String(), `"A&B"`)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	entry := classify.ReviewEntry{MakeID: 9, MakeName: "Zoomcar", MakeSlug: "zoomcar", VehicleTypes: []string{"Passenger Car"}}
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, entry))
	assert.Contains(t, buf.String(), "make_slug: zoomcar")
}

func TestTableFormatterStructs(t *testing.T) {
	var buf bytes.Buffer
	entries := []classify.ReviewEntry{{MakeID: 9, MakeName: "Zoomcar", MakeSlug: "zoomcar"}}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, entries))
	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "MAKE SLUG")
	assert.Contains(t, out, "zoomcar")
}

func TestYearsCell(t *testing.T) {
	assert.Equal(t, "-", yearsCell(nil))
	assert.Equal(t, "2001", yearsCell(vehicles.Years{2001}))
	assert.Equal(t, "2001-2003, 2006", yearsCell(vehicles.Years{2001, 2002, 2003, 2006}))
}

func TestTables(t *testing.T) {
	first, last := 2001, 2015
	mazda := vehicles.NewMake(473, "Mazda")
	mazda.FirstYear, mazda.LastYear = &first, &last
	mazda.Models["CX-5"] = &vehicles.Model{
		ID: 12, Name: "CX-5", VehicleType: vehicles.VehicleTypeMPV,
		Years:  vehicles.Years{2015},
		Styles: vehicles.Styles{"CX-5 TOURING": {Years: vehicles.Years{2015}}},
	}

	makes := MakesTable([]*vehicles.Make{mazda})
	assert.Equal(t, []string{"mazda", "Mazda", "473", "2001", "2015", "1", "1"}, makes.Rows[0])

	models := ModelsTable([]*vehicles.Model{mazda.Models["CX-5"]})
	assert.Equal(t, []string{"CX-5", "12", "mpv", "2015", "1"}, models.Rows[0])

	styles := StylesTable(mazda.Models["CX-5"].Styles)
	assert.Equal(t, [][]string{{"CX-5 TOURING", "2015"}}, styles.Rows)

	orphans := OrphansTable(vehicles.OrphanReport{
		"Mazda": {OrphanedStyles: []string{"MX-5 MIATA", "RX-8"}},
	})
	assert.Len(t, orphans.Rows, 2)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatTable, mazda, makes))
	assert.Contains(t, buf.String(), "mazda")
}
