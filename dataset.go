package carmap

import (
	"context"
	"errors"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/query"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Dataset provides read access to the persisted dataset.
type Dataset interface {
	// Makes returns every persisted make with its styles attached
	Makes() ([]*vehicles.Make, error)

	// Orphans returns the persisted orphan report
	Orphans() (vehicles.OrphanReport, error)

	// Unclassified returns the makes waiting for allow/deny curation
	Unclassified() ([]classify.ReviewEntry, error)

	// Query indexes the persisted dataset for read-side queries
	Query() (*query.Index, error)

	// Export writes the persisted dataset to the given sinks
	Export(ctx context.Context, sinks ...Sink) error
}

// Sink receives the full tree after the style stage.
type Sink interface {
	Name() string
	Write(ctx context.Context, makes []*vehicles.Make) error
}

// SinkError records a failed sink write.
type SinkError struct {
	Sink string
	Err  error
}

// Error implements the error interface
func (e *SinkError) Error() string {
	return "sink " + e.Sink + ": " + e.Err.Error()
}

// Unwrap implements errors.Unwrap
func (e *SinkError) Unwrap() error {
	return e.Err
}

// Makes returns every persisted make with its styles attached.
func (c *client) Makes() ([]*vehicles.Make, error) {
	return c.store.LoadDataset()
}

// Orphans returns the persisted orphan report.
func (c *client) Orphans() (vehicles.OrphanReport, error) {
	return c.store.LoadOrphans()
}

// Unclassified returns the makes waiting for allow/deny curation.
func (c *client) Unclassified() ([]classify.ReviewEntry, error) {
	return c.store.LoadUnclassified()
}

// Query indexes the persisted dataset.
func (c *client) Query() (*query.Index, error) {
	makes, err := c.store.LoadDataset()
	if err != nil {
		return nil, err
	}
	return query.New(makes), nil
}

// Export writes the persisted dataset to every sink. Every sink is attempted.
func (c *client) Export(ctx context.Context, sinks ...Sink) error {
	makes, err := c.store.LoadDataset()
	if err != nil {
		return err
	}
	var errs []error
	for _, failure := range writeSinks(ctx, sinks, makes) {
		errs = append(errs, failure)
	}
	return errors.Join(errs...)
}

// writeSinks writes makes to every sink and returns the failures.
func writeSinks(ctx context.Context, sinks []Sink, makes []*vehicles.Make) []*SinkError {
	logger := logging.FromContext(ctx)
	var failures []*SinkError
	for _, sink := range sinks {
		if err := sink.Write(ctx, makes); err != nil {
			logger.Error().Err(err).Str("sink", sink.Name()).Msg("Sink write failed")
			failures = append(failures, &SinkError{Sink: sink.Name(), Err: err})
			continue
		}
		logger.Info().Str("sink", sink.Name()).Int("makes", len(makes)).Msg("Sink write complete")
	}
	return failures
}
