package sources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/sources"
	"github.com/agentstation/carmap/pkg/vehicles"
)

func TestModelRecord(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		model, err := sources.ModelRecord{ID: 1, Name: "Miata", VehicleType: "car"}.Model()
		require.NoError(t, err)
		assert.Equal(t, vehicles.VehicleTypeCar, model.VehicleType)
	})

	t.Run("missing vehicle type", func(t *testing.T) {
		_, err := sources.ModelRecord{ID: 1, Name: "Miata"}.Model()
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unknown vehicle type", func(t *testing.T) {
		err := sources.ModelRecord{ID: 1, Name: "Miata", VehicleType: "bus"}.Validate()
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("missing name", func(t *testing.T) {
		err := sources.ModelRecord{ID: 1, VehicleType: "car"}.Validate()
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestMakeRecord(t *testing.T) {
	assert.NoError(t, sources.MakeRecord{ID: 473, Name: "MAZDA"}.Validate())
	assert.Error(t, sources.MakeRecord{ID: 0, Name: "MAZDA"}.Validate())
	assert.Error(t, sources.MakeRecord{ID: 1, Name: " "}.Validate())
}

func TestVehicleTypeRecord(t *testing.T) {
	assert.True(t, sources.VehicleTypeRecord{ID: 2}.Passenger())
	assert.True(t, sources.VehicleTypeRecord{ID: 7}.Passenger())
	assert.False(t, sources.VehicleTypeRecord{ID: 1}.Passenger())
}
