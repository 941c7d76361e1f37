package persistence_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap/internal/persistence"
	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

func mazda(t *testing.T) *vehicles.Make {
	t.Helper()
	m := vehicles.NewMake(473, "MAZDA")
	require.NoError(t, m.SetSpan(2001, 2015))

	protege, err := vehicles.NewModel(1, "Protege", vehicles.VehicleTypeCar)
	require.NoError(t, err)
	protege.Years = vehicles.Years{2001, 2002}
	protege.Styles["PROTEGE LX 4DR"] = &vehicles.StyleRecord{Years: vehicles.Years{2001}}

	cx5, err := vehicles.NewModel(3, "CX-5", vehicles.VehicleTypeMPV)
	require.NoError(t, err)
	cx5.Years = vehicles.Years{2015}
	cx5.Styles["CX-5 TOURING"] = &vehicles.StyleRecord{Years: vehicles.Years{2015}}
	cx5.Styles["CX-5 GT & SPORT"] = &vehicles.StyleRecord{Years: vehicles.Years{2015}}

	m.Models["Protege"] = protege
	m.Models["CX-5"] = cx5
	return m
}

func TestLoadMakesMissingFile(t *testing.T) {
	store := persistence.New(t.TempDir())
	makes, err := store.LoadMakes()
	require.NoError(t, err)
	assert.Empty(t, makes)
}

func TestSaveMakesSortsAndStripsStyles(t *testing.T) {
	dir := t.TempDir()
	store := persistence.New(dir)

	acura := vehicles.NewMake(475, "ACURA")
	m := mazda(t)
	require.NoError(t, store.SaveMakes([]*vehicles.Make{m, acura}))

	// The in-memory tree keeps its styles.
	assert.Equal(t, 2, m.Models["CX-5"].Styles.Count())

	loaded, err := store.LoadMakes()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "acura", loaded[0].Slug)
	assert.Equal(t, "mazda", loaded[1].Slug)
	assert.Nil(t, loaded[0].FirstYear)
	assert.NotNil(t, loaded[0].Models)

	got := loaded[1]
	first, last, ok := got.Span()
	require.True(t, ok)
	assert.Equal(t, 2001, first)
	assert.Equal(t, 2015, last)
	assert.Equal(t, vehicles.Years{2001, 2002}, got.Models["Protege"].Years)
	assert.Empty(t, got.Models["Protege"].Styles)

	raw, err := os.ReadFile(filepath.Join(dir, "makes_and_models.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"model_styles": {}`)
	assert.Contains(t, string(raw), `"first_year": null`)
}

func TestStylesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := persistence.New(dir)
	m := mazda(t)
	m.Models["Tribute"], _ = vehicles.NewModel(4, "Tribute", vehicles.VehicleTypeMPV)

	require.NoError(t, store.SaveStyles(m))

	styles, err := store.LoadStyles("mazda")
	require.NoError(t, err)
	want := map[string]vehicles.Styles{
		"Protege": {"PROTEGE LX 4DR": {Years: vehicles.Years{2001}}},
		"CX-5": {
			"CX-5 TOURING":    {Years: vehicles.Years{2015}},
			"CX-5 GT & SPORT": {Years: vehicles.Years{2015}},
		},
		"Tribute": {},
	}
	if diff := cmp.Diff(want, styles); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "styles", "mazda.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "GT & SPORT", "labels are written without HTML escaping")

	_, err = store.LoadStyles("acura")
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadDataset(t *testing.T) {
	store := persistence.New(t.TempDir())
	m := mazda(t)
	require.NoError(t, store.SaveMakes([]*vehicles.Make{m, vehicles.NewMake(475, "ACURA")}))
	require.NoError(t, store.SaveStyles(m))

	makes, err := store.LoadDataset()
	require.NoError(t, err)
	require.Len(t, makes, 2)
	assert.Equal(t, 0, makes[0].StyleCount())
	assert.Equal(t, 3, makes[1].StyleCount())
	assert.Equal(t, vehicles.Years{2015}, makes[1].Models["CX-5"].Styles["CX-5 TOURING"].Years)
}

func TestLoadMakesCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "makes_and_models.json"), []byte("{"), 0o644))

	_, err := persistence.New(dir).LoadMakes()
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadMakesSkipsInvalidMakes(t *testing.T) {
	dir := t.TempDir()
	data := `[
  {"make_id": 473, "make_name": "MAZDA", "make_slug": "mazda", "first_year": 2001, "last_year": 2003, "models": {
    "Protege": {"model_id": 10, "vehicle_type": "car", "years": [2001, 2003], "model_styles": {}}
  }},
  {"make_id": 474, "make_name": "TOYOTA", "make_slug": "toyota", "first_year": 2010, "models": {}},
  {"make_id": 475, "make_name": "ACURA", "make_slug": "acura", "models": {
    "NSX": {"model_id": 30, "vehicle_type": "car", "years": [1995, 1991], "model_styles": {}}
  }}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "makes_and_models.json"), []byte(data), 0o644))

	makes, err := persistence.New(dir).LoadMakes()
	require.NoError(t, err)
	require.Len(t, makes, 1)
	assert.Equal(t, "mazda", makes[0].Slug)
	assert.Equal(t, vehicles.Years{2001, 2003}, makes[0].Models["Protege"].Years)
}

func TestOrphansAndUnclassified(t *testing.T) {
	store := persistence.New(t.TempDir())

	report, err := store.LoadOrphans()
	require.NoError(t, err)
	assert.Empty(t, report)

	report = vehicles.OrphanReport{
		"BMW": {ModelChoices: []string{"3 Series"}, OrphanedStyles: []string{"328I CABRIOLET"}},
	}
	require.NoError(t, store.SaveOrphans(report))
	loaded, err := store.LoadOrphans()
	require.NoError(t, err)
	assert.Equal(t, report, loaded)

	entries := []classify.ReviewEntry{{MakeID: 9, MakeName: "NEWCO", MakeSlug: "newco", VehicleTypes: []string{"Passenger Car"}, Passenger: true}}
	require.NoError(t, store.SaveUnclassified(entries))
	gotEntries, err := store.LoadUnclassified()
	require.NoError(t, err)
	assert.Equal(t, entries, gotEntries)
}

func TestStats(t *testing.T) {
	store := persistence.New(t.TempDir())
	m := mazda(t)
	acura := vehicles.NewMake(475, "ACURA")
	require.NoError(t, acura.SetSpan(1986, 2010))
	require.NoError(t, store.SaveMakes([]*vehicles.Make{m, acura, vehicles.NewMake(1, "DEFUNCT")}))
	require.NoError(t, store.SaveStyles(m))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Makes)
	assert.Equal(t, 2, stats.Models)
	assert.Equal(t, 3, stats.Styles)
	assert.Equal(t, 1986, stats.FirstYear)
	assert.Equal(t, 2015, stats.LastYear)
}

const readme = `# Vehicle data

Intro.

## What it contains
old stats
## How to use it

Read the files.
`

func TestReplaceStats(t *testing.T) {
	st := persistence.Stats{
		Makes: 2, Models: 5, Styles: 9, FirstYear: 1981, LastYear: 2024,
		Updated: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
	}

	got, err := persistence.ReplaceStats(readme, st)
	require.NoError(t, err)
	assert.NotContains(t, got, "old stats")
	assert.Contains(t, got, "* 2 makes, e.g.'Toyota'\n")
	assert.Contains(t, got, "* 5 models, e.g. 'Prius V'\n")
	assert.Contains(t, got, "* 9 styles, e.g. 'PRIUS V 5DR HATCHBACK'\n")
	assert.Contains(t, got, "* Supports years from 1981 to 2024\n")
	assert.Contains(t, got, "* Last updated March 05, 2024\n")
	assert.True(t, strings.HasSuffix(got, "## How to use it\n\nRead the files.\n"))

	again, err := persistence.ReplaceStats(got, st)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = persistence.ReplaceStats("# no markers", st)
	assert.True(t, errors.IsValidationError(err))
}

func TestUpdateReadme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(readme), 0o644))

	require.NoError(t, persistence.UpdateReadme(path, persistence.Stats{Makes: 1, Updated: time.Now()}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "* 1 makes")

	err = persistence.UpdateReadme(filepath.Join(t.TempDir(), "missing.md"), persistence.Stats{})
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}
