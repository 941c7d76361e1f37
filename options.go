package carmap

import (
	"time"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/scan"
	"github.com/agentstation/carmap/pkg/sources"
)

// Option is a function that configures a Carmap instance
type Option func(*options) error

// options holds the configuration of a Carmap instance
type options struct {
	dataDir    string
	readmePath string
	source     sources.Source
	classifier classify.Classifier
	lists      *classify.Lists
	years      *scan.YearRange
	sinks      []Sink
	now        func() time.Time
}

// defaults returns the default options
func defaults() *options {
	lists := classify.Default()
	return &options{
		dataDir:    constants.DefaultDataDir,
		readmePath: constants.DefaultReadmePath,
		classifier: lists,
		lists:      lists,
		now:        time.Now,
	}
}

// apply applies the given options
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// yearRange returns the configured scan range, defaulting to the first model
// year through next year.
func (o *options) yearRange() scan.YearRange {
	if o.years != nil {
		return *o.years
	}
	return scan.YearRange{
		From: constants.FirstModelYear,
		To:   o.now().Year() + constants.FutureModelYears,
	}
}

// WithDataDir configures the dataset directory
func WithDataDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.NewValidationError("data_dir", dir, "is required")
		}
		o.dataDir = dir
		return nil
	}
}

// WithReadmePath configures the README whose stats section is rewritten
func WithReadmePath(path string) Option {
	return func(o *options) error {
		o.readmePath = path
		return nil
	}
}

// WithSource configures the vehicle source
func WithSource(src sources.Source) Option {
	return func(o *options) error {
		if src == nil {
			return errors.NewValidationError("source", nil, "is required")
		}
		o.source = src
		return nil
	}
}

// WithClassification configures the allow/deny/rename/skip lists
func WithClassification(lists *classify.Lists) Option {
	return func(o *options) error {
		if lists == nil {
			return errors.NewValidationError("classification", nil, "is required")
		}
		o.lists = lists
		o.classifier = lists
		return nil
	}
}

// WithClassifier replaces only the make classifier. Renames and skips still
// come from the configured lists.
func WithClassifier(c classify.Classifier) Option {
	return func(o *options) error {
		if c == nil {
			return errors.NewValidationError("classifier", nil, "is required")
		}
		o.classifier = c
		return nil
	}
}

// WithYearRange configures the inclusive model year range scanned for presence
func WithYearRange(from, to int) Option {
	return func(o *options) error {
		r := scan.YearRange{From: from, To: to}
		if err := r.Validate(); err != nil {
			return err
		}
		o.years = &r
		return nil
	}
}

// WithSinks configures sinks that receive the tree after the style stage
func WithSinks(sinks ...Sink) Option {
	return func(o *options) error {
		o.sinks = append(o.sinks, sinks...)
		return nil
	}
}

// WithClock overrides the clock used for default year ranges and README dates
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		o.now = now
		return nil
	}
}
