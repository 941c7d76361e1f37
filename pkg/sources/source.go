// Package sources defines the query capability the carmap pipeline consumes
// and the partial records an external vehicle source returns.
//
// Records carry exactly what the source reported. Fields the pipeline requires
// are checked by Validate, and a record that fails validation is skipped on
// its own without failing the run.
package sources

import (
	"context"
	"strings"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Source is an external vehicle registry.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// ListMakes returns the makes that produce passenger vehicles.
	ListMakes(ctx context.Context) ([]MakeRecord, error)

	// ListModels returns every passenger model of a make.
	ListModels(ctx context.Context, makeID int) ([]ModelRecord, error)

	// ModelsPresent returns the ids of the make's models that exist in a model year.
	ModelsPresent(ctx context.Context, makeID, year int) ([]int, error)

	// VehicleDetails returns the style specifications of a make in a model year.
	VehicleDetails(ctx context.Context, year int, makeName string) ([]vehicles.StyleDetail, error)

	// VehicleTypes returns the vehicle types a make produces.
	VehicleTypes(ctx context.Context, makeID int) ([]VehicleTypeRecord, error)
}

// MakeRecord is a make as listed by the source.
type MakeRecord struct {
	ID   int    `json:"make_id"`
	Name string `json:"make_name"`
}

// Validate checks that the record can become a Make.
func (r MakeRecord) Validate() error {
	if r.ID <= 0 {
		return errors.NewValidationError("make_id", r.ID, "must be positive")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.NewValidationError("make_name", r.Name, "is required")
	}
	return nil
}

// ModelRecord is a model as listed by the source. VehicleType may be empty
// when the source did not classify the model.
type ModelRecord struct {
	ID          int    `json:"model_id"`
	Name        string `json:"model_name"`
	VehicleType string `json:"vehicle_type,omitempty"`
}

// Validate checks that the record can become a Model.
func (r ModelRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.NewValidationError("model_name", r.Name, "is required")
	}
	if r.VehicleType == "" {
		return errors.NewValidationError("vehicle_type", r.VehicleType, "is required")
	}
	_, err := vehicles.ParseVehicleType(r.VehicleType)
	return err
}

// Model builds the validated Model for this record.
func (r ModelRecord) Model() (*vehicles.Model, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	vt, _ := vehicles.ParseVehicleType(r.VehicleType)
	return vehicles.NewModel(r.ID, r.Name, vt)
}

// VehicleTypeRecord is one vehicle type a make produces.
type VehicleTypeRecord struct {
	ID   int    `json:"vehicle_type_id"`
	Name string `json:"vehicle_type_name"`
}

// Passenger reports whether the type is a passenger vehicle type.
func (r VehicleTypeRecord) Passenger() bool {
	return vehicles.PassengerVehicleTypeIDs[r.ID]
}
