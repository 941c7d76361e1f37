package carmap

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/carmap/pkg/classify"
	pkgerrors "github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/scan"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Updater runs pipeline stages.
type Updater interface {
	// Update runs the selected stages (all by default) in order
	Update(ctx context.Context, opts ...UpdateOption) (*Result, error)

	// UpdateMakes discovers and classifies makes
	UpdateMakes(ctx context.Context, opts ...UpdateOption) (*MakesResult, error)

	// UpdateModels rebuilds the models and year spans of every make
	UpdateModels(ctx context.Context, opts ...UpdateOption) (*ModelsResult, error)

	// UpdateStyles matches style labels to models for every make with a span
	UpdateStyles(ctx context.Context, opts ...UpdateOption) (*StylesResult, error)

	// UpdateReadme rewrites the README statistics
	UpdateReadme(ctx context.Context, opts ...UpdateOption) (*ReadmeResult, error)
}

// Stage is one step of an update run.
type Stage string

// Stages in run order.
const (
	StageMakes  Stage = "makes"
	StageModels Stage = "models"
	StageStyles Stage = "styles"
	StageReadme Stage = "readme"
)

// Stages lists every stage in run order.
var Stages = []Stage{StageMakes, StageModels, StageStyles, StageReadme}

// ParseStage parses a stage name.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Stages, stage) {
		return "", pkgerrors.NewValidationError("stage", s, "must be one of makes, models, styles, readme")
	}
	return stage, nil
}

// UpdateOptions controls one update run.
type UpdateOptions struct {
	TargetMake string              // Only touch the make with this slug
	DryRun     bool                // Run without persisting anything
	Stages     []Stage             // Stages to run; empty means all
	TypeCache  *classify.TypeCache // Vehicle type cache shared with the caller; nil means a fresh one
	Years      *scan.YearRange     // Override of the configured scan range
}

// UpdateOption configures UpdateOptions.
type UpdateOption func(*UpdateOptions)

// WithTargetMake limits the run to one make slug.
func WithTargetMake(slug string) UpdateOption {
	return func(o *UpdateOptions) {
		o.TargetMake = vehicles.Slugify(slug)
	}
}

// WithDryRun runs without persisting anything.
func WithDryRun(dryRun bool) UpdateOption {
	return func(o *UpdateOptions) {
		o.DryRun = dryRun
	}
}

// WithStages selects the stages to run.
func WithStages(stages ...Stage) UpdateOption {
	return func(o *UpdateOptions) {
		o.Stages = stages
	}
}

// WithTypeCache shares a vehicle type cache with the run.
func WithTypeCache(cache *classify.TypeCache) UpdateOption {
	return func(o *UpdateOptions) {
		o.TypeCache = cache
	}
}

// WithYears overrides the scanned model year range for this run.
func WithYears(from, to int) UpdateOption {
	return func(o *UpdateOptions) {
		o.Years = &scan.YearRange{From: from, To: to}
	}
}

func newUpdateOptions(opts ...UpdateOption) *UpdateOptions {
	o := &UpdateOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options.
func (o *UpdateOptions) Validate() error {
	for _, s := range o.Stages {
		if _, err := ParseStage(string(s)); err != nil {
			return err
		}
	}
	if o.Years != nil {
		return o.Years.Validate()
	}
	return nil
}

func (o *UpdateOptions) runs(stage Stage) bool {
	return len(o.Stages) == 0 || slices.Contains(o.Stages, stage)
}

func (o *UpdateOptions) targets(m *vehicles.Make) bool {
	return o.TargetMake == "" || o.TargetMake == m.Slug
}

// Result is the outcome of an update run. Stages that did not run are nil.
type Result struct {
	RunID      string
	DryRun     bool
	StartedAt  time.Time
	Duration   time.Duration
	Makes      *MakesResult
	Models     *ModelsResult
	Styles     *StylesResult
	Readme     *ReadmeResult
	SinkErrors []*SinkError
}

// SinkErr joins the sink failures, or returns nil.
func (r *Result) SinkErr() error {
	errs := make([]error, len(r.SinkErrors))
	for i, e := range r.SinkErrors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// RunSummary is the serializable digest of a Result.
type RunSummary struct {
	RunID        string   `json:"run_id"`
	DryRun       bool     `json:"dry_run"`
	DurationMS   int64    `json:"duration_ms"`
	Stages       []Stage  `json:"stages"`
	MakesAdded   int      `json:"makes_added"`
	Unclassified int      `json:"unclassified"`
	ModelsFailed []string `json:"models_failed,omitempty"`
	Styles       int      `json:"styles"`
	Orphans      int      `json:"orphans"`
	SinkFailures []string `json:"sink_failures,omitempty"`
}

// Summary digests the result for logs and events.
func (r *Result) Summary() RunSummary {
	s := RunSummary{RunID: r.RunID, DryRun: r.DryRun, DurationMS: r.Duration.Milliseconds()}
	if r.Makes != nil {
		s.Stages = append(s.Stages, StageMakes)
		s.MakesAdded = len(r.Makes.Added)
		s.Unclassified = len(r.Makes.Unclassified)
	}
	if r.Models != nil {
		s.Stages = append(s.Stages, StageModels)
		s.ModelsFailed = r.Models.Failed
	}
	if r.Styles != nil {
		s.Stages = append(s.Stages, StageStyles)
		s.Styles = r.Styles.Styles
		s.Orphans = r.Styles.Orphans.Count()
	}
	if r.Readme != nil {
		s.Stages = append(s.Stages, StageReadme)
	}
	for _, e := range r.SinkErrors {
		s.SinkFailures = append(s.SinkFailures, e.Sink)
	}
	return s
}

// run carries the state of one update run between stages.
type run struct {
	id    string
	opts  *UpdateOptions
	years scan.YearRange
	types *classify.TypeCache
	makes []*vehicles.Make
}

// Update runs the selected stages in order. The tree produced by one stage is
// handed to the next in memory, so a dry run still exercises every stage.
func (c *client) Update(ctx context.Context, opts ...UpdateOption) (*Result, error) {
	o := newUpdateOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	r := &run{
		id:    uuid.NewString(),
		opts:  o,
		years: c.options.yearRange(),
		types: o.TypeCache,
	}
	if o.Years != nil {
		r.years = *o.Years
	}
	if r.types == nil {
		r.types = classify.NewTypeCache(c.source)
	}

	ctx = logging.WithRunID(ctx, r.id)
	logger := logging.FromContext(ctx)
	result := &Result{RunID: r.id, DryRun: o.DryRun, StartedAt: c.options.now()}

	makes, err := c.store.LoadDataset()
	if err != nil {
		return nil, pkgerrors.WrapResource("load", "dataset", c.store.Dir(), err)
	}
	r.makes = makes
	logger.Info().
		Int("makes", len(makes)).
		Bool("dry_run", o.DryRun).
		Str("target_make", o.TargetMake).
		Int("from_year", r.years.From).
		Int("to_year", r.years.To).
		Msg("Starting update")

	if o.runs(StageMakes) {
		if result.Makes, err = c.updateMakes(logging.WithStage(ctx, string(StageMakes)), r); err != nil {
			return nil, err
		}
	}
	if o.runs(StageModels) {
		if result.Models, err = c.updateModels(logging.WithStage(ctx, string(StageModels)), r); err != nil {
			return nil, err
		}
	}
	if o.runs(StageStyles) {
		if result.Styles, err = c.updateStyles(logging.WithStage(ctx, string(StageStyles)), r); err != nil {
			return nil, err
		}
		if !o.DryRun && len(c.options.sinks) > 0 {
			result.SinkErrors = writeSinks(ctx, c.options.sinks, r.makes)
		}
	}
	if o.runs(StageReadme) {
		if result.Readme, err = c.updateReadme(logging.WithStage(ctx, string(StageReadme)), r); err != nil {
			return nil, err
		}
	}

	result.Duration = c.options.now().Sub(result.StartedAt)
	logger.Info().Interface("summary", result.Summary()).Msg("Update complete")
	c.updateComplete(ctx, result)
	return result, nil
}

// UpdateMakes runs only the makes stage.
func (c *client) UpdateMakes(ctx context.Context, opts ...UpdateOption) (*MakesResult, error) {
	result, err := c.Update(ctx, append(opts, WithStages(StageMakes))...)
	if err != nil {
		return nil, err
	}
	return result.Makes, nil
}

// UpdateModels runs only the models stage.
func (c *client) UpdateModels(ctx context.Context, opts ...UpdateOption) (*ModelsResult, error) {
	result, err := c.Update(ctx, append(opts, WithStages(StageModels))...)
	if err != nil {
		return nil, err
	}
	return result.Models, nil
}

// UpdateStyles runs only the styles stage.
func (c *client) UpdateStyles(ctx context.Context, opts ...UpdateOption) (*StylesResult, error) {
	result, err := c.Update(ctx, append(opts, WithStages(StageStyles))...)
	if err != nil {
		return nil, err
	}
	return result.Styles, nil
}

// UpdateReadme runs only the readme stage.
func (c *client) UpdateReadme(ctx context.Context, opts ...UpdateOption) (*ReadmeResult, error) {
	result, err := c.Update(ctx, append(opts, WithStages(StageReadme))...)
	if err != nil {
		return nil, err
	}
	return result.Readme, nil
}
