// Package export provides the export command.
package export

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
)

// NewCommand creates the export command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "export <sqlite|neo4j>...",
		GroupID:   "core",
		Short:     "Write the persisted dataset to SQLite or Neo4j",
		ValidArgs: []string{"sqlite", "neo4j"},
		Args:      cobra.MatchAll(cobra.MinimumNArgs(1), cobra.OnlyValidArgs),
		Example: `  carmap export sqlite
  NEO4J_URI=bolt://localhost:7687 carmap export neo4j`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := app.Logger()
			ctx := logging.WithLogger(cmd.Context(), logger)

			sinks := make([]carmap.Sink, 0, len(args))
			for _, name := range args {
				sink, closeSink, err := app.OpenSink(ctx, name)
				if err != nil {
					return errors.WrapResource("open", "sink", name, err)
				}
				defer func() {
					if err := closeSink(); err != nil {
						logger.Warn().Err(err).Str("sink", name).Msg("Failed to close sink")
					}
				}()
				sinks = append(sinks, sink)
			}

			cm, err := app.Carmap()
			if err != nil {
				return err
			}
			if err := cm.Export(ctx, sinks...); err != nil {
				return err
			}
			cmd.Printf("Exported dataset to %d sink(s)\n", len(sinks))
			return nil
		},
	}
	return cmd
}
