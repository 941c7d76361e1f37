package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/query"
	"github.com/agentstation/carmap/pkg/vehicles"
)

func dataset(t *testing.T) []*vehicles.Make {
	t.Helper()

	mazda := vehicles.NewMake(473, "MAZDA")
	require.NoError(t, mazda.SetSpan(2001, 2015))
	protege, err := vehicles.NewModel(1, "Protege", vehicles.VehicleTypeCar)
	require.NoError(t, err)
	protege.Years = vehicles.Years{2001, 2002, 2003}
	protege.Styles["PROTEGE LX 4DR"] = &vehicles.StyleRecord{Years: vehicles.Years{2001, 2002}}
	protege.Styles["PROTEGE DX 4DR"] = &vehicles.StyleRecord{Years: vehicles.Years{2002}}
	cx5, err := vehicles.NewModel(3, "CX-5", vehicles.VehicleTypeMPV)
	require.NoError(t, err)
	cx5.Years = vehicles.Years{2015}
	mazda.Models["Protege"] = protege
	mazda.Models["CX-5"] = cx5

	landRover := vehicles.NewMake(471, "LAND ROVER")
	require.NoError(t, landRover.SetSpan(1987, 2020))

	return []*vehicles.Make{mazda, landRover, vehicles.NewMake(1, "DEFUNCT")}
}

func TestMakeByName(t *testing.T) {
	ix := query.New(dataset(t))

	for _, name := range []string{"MAZDA", "mazda", "Mazda ", "land_rover", "Land Rover"} {
		t.Run(name, func(t *testing.T) {
			_, err := ix.MakeByName(name)
			assert.NoError(t, err)
		})
	}

	_, err := ix.MakeByName("Yugo")
	assert.True(t, errors.IsNotFound(err))
}

func TestMakesForYear(t *testing.T) {
	ix := query.New(dataset(t))

	slugs := func(makes []*vehicles.Make) []string {
		var out []string
		for _, m := range makes {
			out = append(out, m.Slug)
		}
		return out
	}
	assert.Equal(t, []string{"land_rover", "mazda"}, slugs(ix.MakesForYear(2005)))
	assert.Equal(t, []string{"land_rover"}, slugs(ix.MakesForYear(1990)))
	assert.Empty(t, ix.MakesForYear(1960))
	assert.Len(t, ix.Makes(), 3)
}

func TestModelsForYear(t *testing.T) {
	ix := query.New(dataset(t))

	models, err := ix.ModelsForYear(2002, "Mazda")
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "Protege", models[0].Name)

	models, err = ix.ModelsForYear(2010, "mazda")
	require.NoError(t, err)
	assert.Empty(t, models)

	_, err = ix.ModelsForYear(2002, "Yugo")
	assert.True(t, errors.IsNotFound(err))
}

func TestStylesForYear(t *testing.T) {
	ix := query.New(dataset(t))

	styles, err := ix.StylesForYear(2002, "MAZDA", "Protege")
	require.NoError(t, err)
	assert.Equal(t, []string{"PROTEGE DX 4DR", "PROTEGE LX 4DR"}, styles)

	styles, err = ix.StylesForYear(2001, "MAZDA", "Protege")
	require.NoError(t, err)
	assert.Equal(t, []string{"PROTEGE LX 4DR"}, styles)

	_, err = ix.StylesForYear(2001, "MAZDA", "Miata")
	assert.True(t, errors.IsNotFound(err))
	_, err = ix.StylesForYear(2001, "Yugo", "GV")
	assert.True(t, errors.IsNotFound(err))
}
