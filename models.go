package carmap

import (
	"context"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/scan"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// ModelsResult is the outcome of the models stage.
type ModelsResult struct {
	Makes        int              // Makes scanned
	Models       int              // Models across the scanned makes
	Skipped      int              // Model records without a valid vehicle type, or duplicates
	Failed       []string         // Slugs whose model listing failed; their previous data is kept
	UnknownYears map[string][]int // Years whose presence query failed, by make slug
}

func (c *client) updateModels(ctx context.Context, r *run) (*ModelsResult, error) {
	result := &ModelsResult{UnknownYears: make(map[string][]int)}
	for _, m := range r.makes {
		if !r.opts.targets(m) {
			continue
		}
		mctx := logging.WithMake(ctx, m.Slug)
		if err := c.updateMakeModels(mctx, r, m, result); err != nil {
			return nil, err
		}
	}

	logging.FromContext(ctx).Info().
		Int("makes", result.Makes).
		Int("models", result.Models).
		Int("skipped", result.Skipped).
		Strs("failed", result.Failed).
		Msg("Models stage complete")

	if r.opts.DryRun {
		return result, nil
	}
	if err := c.store.SaveMakes(r.makes); err != nil {
		return nil, err
	}
	return result, nil
}

// updateMakeModels rebuilds the model map and span of one make. Only a
// cancellation is returned as an error.
func (c *client) updateMakeModels(ctx context.Context, r *run, m *vehicles.Make, result *ModelsResult) error {
	logger := logging.FromContext(ctx)

	records, err := c.source.ListModels(ctx, m.ID)
	if err != nil {
		if ctx.Err() != nil {
			return errors.WrapResource("list", "models", m.Slug, errors.ErrCanceled)
		}
		logger.Error().Err(err).Int("make_id", m.ID).Msg("Listing models failed, keeping previous data")
		result.Failed = append(result.Failed, m.Slug)
		return nil
	}

	models := make(map[string]*vehicles.Model, len(records))
	// Every listed id is scanned; a repeated name shares the first record's model.
	owners := make(map[int]*vehicles.Model, len(records))
	ids := make([]int, 0, len(records))
	for _, rec := range records {
		model, err := rec.Model()
		if err != nil {
			logger.Warn().Err(err).Int("model_id", rec.ID).Str("model", rec.Name).Msg("Skipping invalid model record")
			result.Skipped++
			continue
		}
		if kept, dup := models[model.Name]; dup {
			logger.Debug().Int("model_id", model.ID).Str("model", model.Name).Msg("Folding duplicate model name into the first record")
			result.Skipped++
			if _, seen := owners[model.ID]; !seen {
				owners[model.ID] = kept
				ids = append(ids, model.ID)
			}
			continue
		}
		// Styles survive a models-only run until the style stage rebuilds them.
		if previous, ok := m.Models[model.Name]; ok && previous.Styles != nil {
			model.Styles = previous.Styles
		}
		model.Years = vehicles.Years{}
		models[model.Name] = model
		if _, seen := owners[model.ID]; !seen {
			owners[model.ID] = model
			ids = append(ids, model.ID)
		}
	}

	scanned := &scan.Result{}
	if len(ids) > 0 {
		if scanned, err = scan.Scan(ctx, c.source, m.ID, ids, r.years); err != nil {
			return err
		}
	}
	for _, id := range ids {
		model := owners[id]
		for _, year := range scanned.Years[id] {
			model.Years.Add(year)
		}
	}
	m.Models = models
	if first, last, ok := scanned.Span(); ok {
		if err := m.SetSpan(first, last); err != nil {
			return err
		}
	} else {
		m.ClearSpan()
	}

	result.Makes++
	result.Models += len(models)
	if len(scanned.Unknown) > 0 {
		result.UnknownYears[m.Slug] = scanned.Unknown
	}
	logger.Info().
		Int("models", len(models)).
		Interface("first_year", m.FirstYear).
		Interface("last_year", m.LastYear).
		Ints("unknown_years", scanned.Unknown).
		Msg("Scanned models")
	return nil
}
