package classify

import (
	"context"

	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/sources"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// TypeLister returns the vehicle types a make produces.
type TypeLister interface {
	VehicleTypes(ctx context.Context, makeID int) ([]sources.VehicleTypeRecord, error)
}

// TypeCache memoizes vehicle type lookups by make id for one pipeline run.
// Failed lookups are not cached. It is not safe for concurrent use.
type TypeCache struct {
	lister  TypeLister
	entries map[int][]sources.VehicleTypeRecord
}

// NewTypeCache creates an empty cache over lister.
func NewTypeCache(lister TypeLister) *TypeCache {
	return &TypeCache{
		lister:  lister,
		entries: make(map[int][]sources.VehicleTypeRecord),
	}
}

// Types returns the vehicle types of a make, querying the lister at most once per make.
func (c *TypeCache) Types(ctx context.Context, makeID int) ([]sources.VehicleTypeRecord, error) {
	if types, ok := c.entries[makeID]; ok {
		return types, nil
	}
	types, err := c.lister.VehicleTypes(ctx, makeID)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		if !vehicles.IsKnownVehicleTypeID(t.ID) {
			logging.FromContext(ctx).Warn().
				Int("make_id", makeID).
				Int("vehicle_type_id", t.ID).
				Str("vehicle_type_name", t.Name).
				Msg("Found a new vehicle type")
		}
	}
	c.entries[makeID] = types
	return types, nil
}

// Len returns the number of cached makes.
func (c *TypeCache) Len() int {
	return len(c.entries)
}
