package carmap

import (
	"context"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// MakesResult is the outcome of the makes stage.
type MakesResult struct {
	Listed       int                    // Makes returned by the source
	Skipped      int                    // Invalid or skip-listed records
	Existing     int                    // Already in the dataset
	Added        []string               // Slugs of newly allowed makes
	Denied       []string               // Slugs of denied makes
	Unclassified []classify.ReviewEntry // Makes waiting for curation
}

func (c *client) updateMakes(ctx context.Context, r *run) (*MakesResult, error) {
	logger := logging.FromContext(ctx)

	records, err := c.source.ListMakes(ctx)
	if err != nil {
		return nil, errors.WrapResource("list", "makes", c.source.Name(), err)
	}

	existing := make(map[string]bool, len(r.makes))
	for _, m := range r.makes {
		existing[m.Slug] = true
	}

	result := &MakesResult{Listed: len(records), Unclassified: []classify.ReviewEntry{}}
	for _, rec := range records {
		rec.Name = c.options.lists.Rename(rec.Name)
		if c.options.lists.Skip(rec.ID) {
			result.Skipped++
			continue
		}
		if err := rec.Validate(); err != nil {
			logger.Warn().Err(err).Int("make_id", rec.ID).Msg("Skipping invalid make record")
			result.Skipped++
			continue
		}

		m := vehicles.NewMake(rec.ID, rec.Name)
		if !r.opts.targets(m) {
			continue
		}
		if existing[m.Slug] {
			result.Existing++
			continue
		}

		switch c.options.classifier.Classify(m.Slug) {
		case classify.Allowed:
			existing[m.Slug] = true
			r.makes = append(r.makes, m)
			result.Added = append(result.Added, m.Slug)
			logger.Info().Str("make", m.Slug).Int("make_id", m.ID).Msg("Added make")
			c.makeAdded(ctx, m)
		case classify.Denied:
			result.Denied = append(result.Denied, m.Slug)
		default:
			entry := c.reviewEntry(ctx, r, m)
			result.Unclassified = append(result.Unclassified, entry)
			logger.Warn().
				Str("make", m.Name).
				Str("make_slug", m.Slug).
				Strs("vehicle_types", entry.VehicleTypes).
				Msg("Unknown make, add it to the allow or deny list")
			c.unclassifiedMake(ctx, entry)
		}
	}
	vehicles.SortBySlug(r.makes)

	logger.Info().
		Int("listed", result.Listed).
		Int("added", len(result.Added)).
		Int("denied", len(result.Denied)).
		Int("unclassified", len(result.Unclassified)).
		Msg("Makes stage complete")

	if r.opts.DryRun {
		return result, nil
	}
	if err := c.store.SaveMakes(r.makes); err != nil {
		return nil, err
	}
	// A targeted run only sees one make, so it must not replace the full review list.
	if r.opts.TargetMake == "" {
		if err := c.store.SaveUnclassified(result.Unclassified); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// reviewEntry annotates an unknown make with the vehicle types it produces.
// A failed type lookup leaves the entry without types.
func (c *client) reviewEntry(ctx context.Context, r *run, m *vehicles.Make) classify.ReviewEntry {
	entry := classify.ReviewEntry{
		MakeID:       m.ID,
		MakeName:     m.Name,
		MakeSlug:     m.Slug,
		VehicleTypes: []string{},
	}
	types, err := r.types.Types(ctx, m.ID)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Int("make_id", m.ID).Msg("Vehicle type lookup failed")
		return entry
	}
	for _, t := range types {
		entry.VehicleTypes = append(entry.VehicleTypes, t.Name)
		if t.Passenger() {
			entry.Passenger = true
		}
	}
	return entry
}
