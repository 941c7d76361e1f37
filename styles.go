package carmap

import (
	"context"
	"strings"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/reconcile"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// StylesResult is the outcome of the styles stage.
type StylesResult struct {
	Makes       int                   // Makes whose styles were rebuilt
	Styles      int                   // Style labels attached to models
	Orphans     vehicles.OrphanReport // Unmatched labels of the rebuilt makes
	NoSpan      []string              // Slugs skipped because no model year was seen
	FailedYears map[string][]int      // Years whose details query failed, by make slug
}

func (c *client) updateStyles(ctx context.Context, r *run) (*StylesResult, error) {
	logger := logging.FromContext(ctx)
	result := &StylesResult{
		Orphans:     vehicles.OrphanReport{},
		FailedYears: make(map[string][]int),
	}

	var rebuilt []*vehicles.Make
	for _, m := range r.makes {
		if !r.opts.targets(m) {
			continue
		}
		mctx := logging.WithMake(ctx, m.Slug)
		if _, _, ok := m.Span(); !ok {
			logging.FromContext(mctx).Warn().Msg("Make has no year span, skipping styles")
			result.NoSpan = append(result.NoSpan, m.Slug)
			continue
		}
		report, err := c.updateMakeStyles(mctx, m, result)
		if err != nil {
			return nil, err
		}
		result.Orphans[m.Name] = report
		result.Makes++
		result.Styles += m.StyleCount()
		rebuilt = append(rebuilt, m)
	}

	logger.Info().
		Int("makes", result.Makes).
		Int("styles", result.Styles).
		Int("orphans", result.Orphans.Count()).
		Strs("no_span", result.NoSpan).
		Msg("Styles stage complete")

	if r.opts.DryRun {
		return result, nil
	}
	for _, m := range rebuilt {
		if err := c.store.SaveStyles(m); err != nil {
			return nil, err
		}
	}
	report := result.Orphans
	if r.opts.TargetMake != "" {
		persisted, err := c.store.LoadOrphans()
		if err != nil {
			return nil, err
		}
		for name, entry := range result.Orphans {
			persisted[name] = entry
		}
		report = persisted
	}
	if err := c.store.SaveOrphans(report); err != nil {
		return nil, err
	}
	return result, nil
}

// updateMakeStyles queries every year of the make's span and attaches the
// matched labels to its models. Only a cancellation is returned as an error.
func (c *client) updateMakeStyles(ctx context.Context, m *vehicles.Make, result *StylesResult) (*vehicles.MakeOrphans, error) {
	logger := logging.FromContext(ctx)
	first, last, _ := m.Span()
	names := m.ModelNames()
	acc := reconcile.NewAccumulator(m.Name, names)

	for year := first; year <= last; year++ {
		details, err := c.source.VehicleDetails(ctx, year, m.Name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.WrapResource("details", "make", m.Slug, errors.ErrCanceled)
			}
			logging.FromContext(logging.WithYear(ctx, year)).Warn().Err(err).Msg("Details query failed, year skipped")
			result.FailedYears[m.Slug] = append(result.FailedYears[m.Slug], year)
			continue
		}

		for _, d := range details {
			label := strings.TrimSpace(d.Style)
			if label == "" {
				logger.Debug().Int("year", year).Msg("Skipping style without a label")
				continue
			}
			seen := len(acc.Orphans())
			if _, ok := acc.Add(label, year); ok {
				continue
			}
			logger.Debug().Str("style", label).Int("year", year).Msg("Orphaned style")
			if orphans := acc.Orphans(); len(orphans) > seen {
				c.orphan(ctx, orphans[len(orphans)-1])
			}
		}
	}

	report := acc.Report(names)
	styles := acc.Styles()
	for name, model := range m.Models {
		model.Styles = styles[name]
		if model.Styles == nil {
			model.Styles = vehicles.Styles{}
		}
	}
	logger.Info().
		Int("styles", m.StyleCount()).
		Int("orphans", len(report.OrphanedStyles)).
		Msg("Matched styles")
	return report, nil
}
