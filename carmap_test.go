package carmap_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/sources"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// fakeSource serves canned vPIC answers. Keys of presence and details are
// "makeID/year" and "makeName/year".
type fakeSource struct {
	makes       []sources.MakeRecord
	models      map[int][]sources.ModelRecord
	modelsErr   map[int]error
	presence    map[string][]int
	presenceErr map[string]error
	details     map[string][]vehicles.StyleDetail
	detailsErr  map[string]error
	types       map[int][]sources.VehicleTypeRecord
	typeCalls   int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) ListMakes(ctx context.Context) ([]sources.MakeRecord, error) {
	return f.makes, nil
}

func (f *fakeSource) ListModels(ctx context.Context, makeID int) ([]sources.ModelRecord, error) {
	if err := f.modelsErr[makeID]; err != nil {
		return nil, err
	}
	return f.models[makeID], nil
}

func (f *fakeSource) ModelsPresent(ctx context.Context, makeID, year int) ([]int, error) {
	key := fmt.Sprintf("%d/%d", makeID, year)
	if err := f.presenceErr[key]; err != nil {
		return nil, err
	}
	return f.presence[key], nil
}

func (f *fakeSource) VehicleDetails(ctx context.Context, year int, makeName string) ([]vehicles.StyleDetail, error) {
	key := fmt.Sprintf("%s/%d", makeName, year)
	if err := f.detailsErr[key]; err != nil {
		return nil, err
	}
	return f.details[key], nil
}

func (f *fakeSource) VehicleTypes(ctx context.Context, makeID int) ([]sources.VehicleTypeRecord, error) {
	f.typeCalls++
	return f.types[makeID], nil
}

func styles(labels ...string) []vehicles.StyleDetail {
	out := make([]vehicles.StyleDetail, len(labels))
	for i, l := range labels {
		out[i] = vehicles.StyleDetail{Style: l}
	}
	return out
}

// mazdaSource lists Mazda with Protege (2001-2003), Protege5 (2003) and CX-5 (2015).
func mazdaSource() *fakeSource {
	return &fakeSource{
		makes: []sources.MakeRecord{
			{ID: 473, Name: "Mazda"},
			{ID: 1, Name: "Freightliner"},
			{ID: 99, Name: "Zoomcar"},
			{ID: 1033, Name: "Skipped Motors"},
		},
		models: map[int][]sources.ModelRecord{
			473: {
				{ID: 10, Name: "Protege", VehicleType: "car"},
				{ID: 11, Name: "Protege5", VehicleType: "car"},
				{ID: 12, Name: "CX-5", VehicleType: "mpv"},
				{ID: 13, Name: "Mystery"},
				{ID: 14, Name: "Protege", VehicleType: "truck"},
			},
		},
		presence: map[string][]int{
			"473/2001": {10},
			"473/2003": {10, 11},
			"473/2015": {12},
		},
		details: map[string][]vehicles.StyleDetail{
			"Mazda/2001": styles("PROTEGE LX 4DR", ""),
			"Mazda/2003": styles("PROTEGE5 4DR SEDAN", "MX-5 MIATA", "MX-5 MIATA"),
			"Mazda/2015": styles("CX-5 TOURING"),
		},
		types: map[int][]sources.VehicleTypeRecord{
			99: {{ID: 2, Name: "Passenger Car"}},
		},
	}
}

type testEnv struct {
	dir    string
	readme string
	source *fakeSource
	cm     carmap.Carmap
}

func newTestEnv(t *testing.T, src *fakeSource, opts ...carmap.Option) *testEnv {
	t.Helper()
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# carmap\n\n## What it contains\nold\n## How to use it\nread the files\n"), 0o644))

	clock := func() time.Time { return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC) }
	opts = append([]carmap.Option{
		carmap.WithDataDir(filepath.Join(dir, "data")),
		carmap.WithReadmePath(readme),
		carmap.WithSource(src),
		carmap.WithYearRange(2000, 2016),
		carmap.WithClock(clock),
	}, opts...)
	cm, err := carmap.New(opts...)
	require.NoError(t, err)
	return &testEnv{dir: dir, readme: readme, source: src, cm: cm}
}

func TestUpdateMazda(t *testing.T) {
	env := newTestEnv(t, mazdaSource())

	var added []string
	var unclassified []classify.ReviewEntry
	var orphans []vehicles.OrphanEntry
	var completed *carmap.Result
	env.cm.OnMakeAdded(func(ctx context.Context, m *vehicles.Make) { added = append(added, m.Slug) })
	env.cm.OnUnclassifiedMake(func(ctx context.Context, e classify.ReviewEntry) { unclassified = append(unclassified, e) })
	env.cm.OnOrphan(func(ctx context.Context, o vehicles.OrphanEntry) { orphans = append(orphans, o) })
	env.cm.OnUpdateComplete(func(ctx context.Context, r *carmap.Result) { completed = r })

	result, err := env.cm.Update(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	assert.Same(t, result, completed)

	t.Run("makes", func(t *testing.T) {
		assert.Equal(t, []string{"mazda"}, added)
		assert.Equal(t, []string{"freightliner"}, result.Makes.Denied)
		assert.Equal(t, 1, result.Makes.Skipped)
		require.Len(t, unclassified, 1)
		assert.Equal(t, classify.ReviewEntry{
			MakeID:       99,
			MakeName:     "Zoomcar",
			MakeSlug:     "zoomcar",
			VehicleTypes: []string{"Passenger Car"},
			Passenger:    true,
		}, unclassified[0])

		review, err := env.cm.Unclassified()
		require.NoError(t, err)
		assert.Equal(t, unclassified, review)
	})

	t.Run("models", func(t *testing.T) {
		assert.Equal(t, 3, result.Models.Models)
		assert.Equal(t, 2, result.Models.Skipped)

		makes, err := env.cm.Makes()
		require.NoError(t, err)
		require.Len(t, makes, 1)
		mazda := makes[0]
		first, last, ok := mazda.Span()
		require.True(t, ok)
		assert.Equal(t, 2001, first)
		assert.Equal(t, 2015, last)
		assert.Equal(t, vehicles.Years{2001, 2003}, mazda.Models["Protege"].Years)
		assert.Equal(t, vehicles.VehicleTypeCar, mazda.Models["Protege"].VehicleType)
		assert.Equal(t, vehicles.Years{2015}, mazda.Models["CX-5"].Years)
	})

	t.Run("styles", func(t *testing.T) {
		makes, err := env.cm.Makes()
		require.NoError(t, err)
		got := map[string]vehicles.Styles{}
		for name, model := range makes[0].Models {
			got[name] = model.Styles
		}
		want := map[string]vehicles.Styles{
			"Protege":  {"PROTEGE LX 4DR": {Years: vehicles.Years{2001}}},
			"Protege5": {"PROTEGE5 4DR SEDAN": {Years: vehicles.Years{2003}}},
			"CX-5":     {"CX-5 TOURING": {Years: vehicles.Years{2015}}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("styles mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 3, result.Styles.Styles)
	})

	t.Run("orphans", func(t *testing.T) {
		assert.Equal(t, []vehicles.OrphanEntry{{MakeName: "Mazda", StyleLabel: "MX-5 MIATA", Year: 2003}}, orphans)

		report, err := env.cm.Orphans()
		require.NoError(t, err)
		assert.Equal(t, vehicles.OrphanReport{
			"Mazda": {
				ModelChoices:   []string{"CX-5", "Protege", "Protege5"},
				OrphanedStyles: []string{"MX-5 MIATA"},
			},
		}, report)
	})

	t.Run("readme", func(t *testing.T) {
		data, err := os.ReadFile(env.readme)
		require.NoError(t, err)
		assert.Contains(t, string(data), "* 1 makes, e.g.'Toyota'")
		assert.Contains(t, string(data), "* 3 styles, e.g. 'PRIUS V 5DR HATCHBACK'")
		assert.Contains(t, string(data), "* Supports years from 2001 to 2015")
		assert.Contains(t, string(data), "* Last updated March 05, 2024")
		assert.NotContains(t, string(data), "old")
	})

	t.Run("summary", func(t *testing.T) {
		s := result.Summary()
		assert.Equal(t, result.RunID, s.RunID)
		assert.Equal(t, []carmap.Stage{carmap.StageMakes, carmap.StageModels, carmap.StageStyles, carmap.StageReadme}, s.Stages)
		assert.Equal(t, 1, s.MakesAdded)
		assert.Equal(t, 1, s.Orphans)
	})
}

func TestUpdateDryRun(t *testing.T) {
	env := newTestEnv(t, mazdaSource())

	result, err := env.cm.Update(context.Background(), carmap.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 3, result.Styles.Styles)
	assert.Equal(t, 1, result.Readme.Stats.Makes)
	assert.False(t, result.Readme.Written)

	_, err = os.Stat(filepath.Join(env.dir, "data"))
	assert.True(t, os.IsNotExist(err), "dry run must not create the data directory")

	data, err := os.ReadFile(env.readme)
	require.NoError(t, err)
	assert.Contains(t, string(data), "old")
}

func TestUpdateKeepsExistingMakes(t *testing.T) {
	src := mazdaSource()
	env := newTestEnv(t, src)

	_, err := env.cm.Update(context.Background())
	require.NoError(t, err)

	var added []string
	env.cm.OnMakeAdded(func(ctx context.Context, m *vehicles.Make) { added = append(added, m.Slug) })
	result, err := env.cm.UpdateMakes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, 1, result.Existing)
}

func TestUpdateModelListingFailureKeepsPreviousData(t *testing.T) {
	src := mazdaSource()
	env := newTestEnv(t, src)
	_, err := env.cm.Update(context.Background())
	require.NoError(t, err)

	src.modelsErr = map[int]error{473: errors.ErrSourceUnavailable}
	result, err := env.cm.UpdateModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mazda"}, result.Failed)

	makes, err := env.cm.Makes()
	require.NoError(t, err)
	require.Len(t, makes, 1)
	assert.Len(t, makes[0].Models, 3)
	assert.True(t, makes[0].HasYear(2003))
}

func TestUpdateDuplicateModelNameKeepsPresence(t *testing.T) {
	src := mazdaSource()
	src.presence["473/2010"] = []int{14}
	env := newTestEnv(t, src)

	result, err := env.cm.Update(context.Background(), carmap.WithStages(carmap.StageMakes, carmap.StageModels))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Models.Models)

	makes, err := env.cm.Makes()
	require.NoError(t, err)
	require.Len(t, makes, 1)
	protege := makes[0].Models["Protege"]
	assert.Equal(t, 10, protege.ID)
	assert.Equal(t, vehicles.VehicleTypeCar, protege.VehicleType)
	assert.Equal(t, vehicles.Years{2001, 2003, 2010}, protege.Years)

	first, last, ok := makes[0].Span()
	require.True(t, ok)
	assert.Equal(t, 2001, first)
	assert.Equal(t, 2015, last)
}

func TestUpdateDuplicateModelNameWidensSpan(t *testing.T) {
	src := mazdaSource()
	src.presence = map[string][]int{
		"473/2001": {10},
		"473/2010": {14},
	}
	env := newTestEnv(t, src)

	_, err := env.cm.Update(context.Background(), carmap.WithStages(carmap.StageMakes, carmap.StageModels))
	require.NoError(t, err)

	makes, err := env.cm.Makes()
	require.NoError(t, err)
	first, last, ok := makes[0].Span()
	require.True(t, ok)
	assert.Equal(t, 2001, first)
	assert.Equal(t, 2010, last)
	assert.Equal(t, vehicles.Years{2001, 2010}, makes[0].Models["Protege"].Years)
}

func TestUpdatePresenceFailureLeavesYearUnknown(t *testing.T) {
	src := mazdaSource()
	src.presenceErr = map[string]error{"473/2015": errors.ErrTimeout}
	env := newTestEnv(t, src)

	result, err := env.cm.Update(context.Background(), carmap.WithStages(carmap.StageMakes, carmap.StageModels))
	require.NoError(t, err)
	assert.Equal(t, []int{2015}, result.Models.UnknownYears["mazda"])
	assert.Nil(t, result.Styles)

	makes, err := env.cm.Makes()
	require.NoError(t, err)
	_, last, ok := makes[0].Span()
	require.True(t, ok)
	assert.Equal(t, 2003, last)
	assert.Empty(t, makes[0].Models["CX-5"].Years)
}

func TestUpdateDetailsFailureSkipsYear(t *testing.T) {
	src := mazdaSource()
	src.detailsErr = map[string]error{"Mazda/2003": errors.ErrSourceUnavailable}
	env := newTestEnv(t, src)

	result, err := env.cm.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2003}, result.Styles.FailedYears["mazda"])
	assert.Equal(t, 2, result.Styles.Styles)
	assert.Zero(t, result.Styles.Orphans.Count())
}

func TestUpdateMakeWithoutSpan(t *testing.T) {
	src := mazdaSource()
	src.presence = nil
	env := newTestEnv(t, src)

	result, err := env.cm.Update(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mazda"}, result.Styles.NoSpan)
	assert.Zero(t, result.Styles.Makes)

	makes, err := env.cm.Makes()
	require.NoError(t, err)
	_, _, ok := makes[0].Span()
	assert.False(t, ok)
	assert.Nil(t, makes[0].FirstYear)
}

func TestUpdateTargetMake(t *testing.T) {
	src := mazdaSource()
	src.makes = append(src.makes, sources.MakeRecord{ID: 474, Name: "Toyota"})
	src.models[474] = []sources.ModelRecord{{ID: 20, Name: "Prius V", VehicleType: "car"}}
	src.presence["474/2014"] = []int{20}
	src.details["Toyota/2014"] = styles("PRIUS V 5DR HATCHBACK", "AURIS")
	env := newTestEnv(t, src)

	_, err := env.cm.Update(context.Background())
	require.NoError(t, err)
	before, err := env.cm.Unclassified()
	require.NoError(t, err)

	src.details["Toyota/2014"] = styles("PRIUS V 5DR HATCHBACK", "COROLLA")
	result, err := env.cm.Update(context.Background(), carmap.WithTargetMake("Toyota"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Styles.Makes)

	report, err := env.cm.Orphans()
	require.NoError(t, err)
	assert.Equal(t, []string{"COROLLA"}, report["Toyota"].OrphanedStyles)
	assert.Equal(t, []string{"MX-5 MIATA"}, report["Mazda"].OrphanedStyles)

	after, err := env.cm.Unclassified()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdateSinks(t *testing.T) {
	good := &recordingSink{name: "good"}
	bad := &recordingSink{name: "bad", err: errors.ErrSourceUnavailable}
	env := newTestEnv(t, mazdaSource(), carmap.WithSinks(good, bad))

	result, err := env.cm.Update(context.Background())
	require.NoError(t, err)
	require.Len(t, good.makes, 1)
	assert.Equal(t, 3, good.makes[0].StyleCount())

	require.Len(t, result.SinkErrors, 1)
	assert.Equal(t, "bad", result.SinkErrors[0].Sink)
	assert.ErrorIs(t, result.SinkErr(), errors.ErrSourceUnavailable)
	assert.Equal(t, []string{"bad"}, result.Summary().SinkFailures)

	t.Run("dry run skips sinks", func(t *testing.T) {
		good.makes = nil
		_, err := env.cm.Update(context.Background(), carmap.WithDryRun(true))
		require.NoError(t, err)
		assert.Nil(t, good.makes)
	})

	t.Run("export", func(t *testing.T) {
		good.makes = nil
		err := env.cm.Export(context.Background(), good, bad)
		assert.ErrorIs(t, err, errors.ErrSourceUnavailable)
		assert.Len(t, good.makes, 1)
	})
}

func TestUpdateOptionsValidation(t *testing.T) {
	env := newTestEnv(t, mazdaSource())

	_, err := env.cm.Update(context.Background(), carmap.WithStages("bogus"))
	assert.True(t, errors.IsValidationError(err))

	_, err = env.cm.Update(context.Background(), carmap.WithYears(2010, 2000))
	assert.True(t, errors.IsValidationError(err))
}

func TestUpdateSharedTypeCache(t *testing.T) {
	src := mazdaSource()
	env := newTestEnv(t, src)
	cache := classify.NewTypeCache(src)

	_, err := env.cm.UpdateMakes(context.Background(), carmap.WithTypeCache(cache), carmap.WithDryRun(true))
	require.NoError(t, err)
	_, err = env.cm.UpdateMakes(context.Background(), carmap.WithTypeCache(cache), carmap.WithDryRun(true))
	require.NoError(t, err)
	assert.Equal(t, 1, src.typeCalls)
	assert.Equal(t, 1, cache.Len())
}

func TestParseStage(t *testing.T) {
	stage, err := carmap.ParseStage(" Styles ")
	require.NoError(t, err)
	assert.Equal(t, carmap.StageStyles, stage)

	_, err = carmap.ParseStage("trims")
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	env := newTestEnv(t, mazdaSource())
	_, err := env.cm.Update(context.Background())
	require.NoError(t, err)

	idx, err := env.cm.Query()
	require.NoError(t, err)
	labels, err := idx.StylesForYear(2003, "mazda", "Protege5")
	require.NoError(t, err)
	assert.Equal(t, []string{"PROTEGE5 4DR SEDAN"}, labels)
}

type recordingSink struct {
	name  string
	err   error
	makes []*vehicles.Make
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Write(ctx context.Context, makes []*vehicles.Make) error {
	if s.err != nil {
		return s.err
	}
	s.makes = makes
	return nil
}
