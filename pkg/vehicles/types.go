package vehicles

import (
	"strings"

	"github.com/agentstation/carmap/pkg/errors"
)

// VehicleType classifies a model as one of the passenger vehicle listings.
type VehicleType string

// Vehicle types, spelled the way the vehicle API's listing endpoints spell them.
const (
	VehicleTypeCar   VehicleType = "car"
	VehicleTypeTruck VehicleType = "truck"
	VehicleTypeMPV   VehicleType = "mpv"
)

// VehicleTypes lists every passenger vehicle type in listing order.
var VehicleTypes = []VehicleType{VehicleTypeCar, VehicleTypeTruck, VehicleTypeMPV}

// String returns the string representation of the vehicle type.
func (t VehicleType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known vehicle types.
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleTypeCar, VehicleTypeTruck, VehicleTypeMPV:
		return true
	}
	return false
}

// ParseVehicleType parses a vehicle type case-insensitively.
func ParseVehicleType(s string) (VehicleType, error) {
	t := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errors.NewValidationError("vehicle_type", s, "must be one of car, truck, mpv")
	}
	return t, nil
}

// VehicleTypeNames maps the vehicle API's vehicle type ids to their names.
var VehicleTypeNames = map[int]string{
	1:  "Motorcycle",
	2:  "Passenger Car",
	3:  "Truck",
	5:  "Bus",
	6:  "Trailer",
	7:  "Multipurpose Passenger Vehicle (MPV)",
	9:  "Low Speed Vehicle (LSV)",
	10: "Incomplete Vehicle",
	13: "Off Road Vehicle",
}

// PassengerVehicleTypeIDs are the type ids that make a make a passenger vehicle make.
var PassengerVehicleTypeIDs = map[int]bool{2: true, 3: true, 7: true}

// IsKnownVehicleTypeID reports whether id is in VehicleTypeNames.
func IsKnownVehicleTypeID(id int) bool {
	_, ok := VehicleTypeNames[id]
	return ok
}
