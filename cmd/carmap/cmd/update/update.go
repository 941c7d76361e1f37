package update

import (
	"context"
	"io"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
)

// Execute runs the update and prints the run summary.
func Execute(ctx context.Context, app application.Application, flags *Flags, args []string, w io.Writer) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	opts, err := BuildUpdateOptions(flags, args)
	if err != nil {
		return err
	}

	var cmOpts []carmap.Option
	for _, name := range flags.Sinks {
		sink, closeSink, err := app.OpenSink(ctx, name)
		if err != nil {
			return errors.WrapResource("open", "sink", name, err)
		}
		defer func() {
			if err := closeSink(); err != nil {
				logger.Warn().Err(err).Str("sink", name).Msg("Failed to close sink")
			}
		}()
		cmOpts = append(cmOpts, carmap.WithSinks(sink))
	}

	cm, err := app.Carmap(cmOpts...)
	if err != nil {
		return err
	}

	result, err := cm.Update(ctx, opts...)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	if err := output.Print(w, format, result.Summary(), nil); err != nil {
		return err
	}
	return result.SinkErr()
}

// BuildUpdateOptions turns the flags and stage arguments into update options.
func BuildUpdateOptions(flags *Flags, args []string) ([]carmap.UpdateOption, error) {
	var opts []carmap.UpdateOption
	if len(args) > 0 {
		stages := make([]carmap.Stage, 0, len(args))
		for _, arg := range args {
			stage, err := carmap.ParseStage(arg)
			if err != nil {
				return nil, err
			}
			stages = append(stages, stage)
		}
		opts = append(opts, carmap.WithStages(stages...))
	}
	if flags.Make != "" {
		opts = append(opts, carmap.WithTargetMake(flags.Make))
	}
	if flags.DryRun {
		opts = append(opts, carmap.WithDryRun(true))
	}
	if flags.FromYear != 0 || flags.ToYear != 0 {
		if flags.FromYear == 0 || flags.ToYear == 0 {
			return nil, errors.NewValidationError("year_range", flags, "--from-year and --to-year must be set together")
		}
		opts = append(opts, carmap.WithYears(flags.FromYear, flags.ToYear))
	}
	return opts, nil
}
