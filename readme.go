package carmap

import (
	"context"

	"github.com/agentstation/carmap/internal/persistence"
	"github.com/agentstation/carmap/pkg/logging"
)

// ReadmeResult is the outcome of the readme stage.
type ReadmeResult struct {
	Path    string
	Stats   persistence.Stats
	Written bool
}

// updateReadme rewrites the README stats. A dry run computes the stats from
// the in-memory tree and writes nothing.
func (c *client) updateReadme(ctx context.Context, r *run) (*ReadmeResult, error) {
	result := &ReadmeResult{Path: c.options.readmePath}
	if r.opts.DryRun {
		result.Stats = persistence.StatsFor(r.makes, c.options.now())
		return result, nil
	}

	stats, err := c.store.Stats()
	if err != nil {
		return nil, err
	}
	stats.Updated = c.options.now()
	result.Stats = stats
	if err := persistence.UpdateReadme(c.options.readmePath, stats); err != nil {
		return nil, err
	}
	result.Written = true

	logging.FromContext(ctx).Info().
		Str("path", result.Path).
		Int("makes", stats.Makes).
		Int("models", stats.Models).
		Int("styles", stats.Styles).
		Msg("README stats updated")
	return result, nil
}
