package vehicles

import (
	"strings"

	"github.com/agentstation/carmap/pkg/errors"
)

// StyleRecord is the year coverage of one verbatim style label.
type StyleRecord struct {
	Years Years `json:"years"`
}

// Styles maps verbatim style labels to their records.
type Styles map[string]*StyleRecord

// Count returns the number of style labels.
func (s Styles) Count() int {
	return len(s)
}

// Model is a named product line of a make.
type Model struct {
	ID          int         `json:"model_id"`
	Name        string      `json:"model_name"`
	VehicleType VehicleType `json:"vehicle_type"`
	Years       Years       `json:"years"`
	Styles      Styles      `json:"model_styles"`
}

// NewModel builds a model with empty year and style sets.
// A model without a valid vehicle type is rejected.
func NewModel(id int, name string, vehicleType VehicleType) (*Model, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("model_name", name, "is required")
	}
	if !vehicleType.Valid() {
		return nil, errors.NewValidationError("vehicle_type", string(vehicleType), "is required")
	}
	return &Model{
		ID:          id,
		Name:        name,
		VehicleType: vehicleType,
		Years:       Years{},
		Styles:      Styles{},
	}, nil
}

// Validate checks the model's invariants.
func (m *Model) Validate() error {
	if !m.VehicleType.Valid() {
		return errors.NewValidationError("vehicle_type", string(m.VehicleType), "is required")
	}
	if !m.Years.Valid() {
		return errors.NewValidationError("years", m.Years, "must be strictly increasing")
	}
	for label, style := range m.Styles {
		if style == nil || !style.Years.Valid() {
			return errors.NewValidationError("model_styles", label, "years must be strictly increasing")
		}
	}
	return nil
}
