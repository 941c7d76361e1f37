// Package update provides the update command implementation.
package update

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
)

// Flags holds the update command flags.
type Flags struct {
	Make     string
	DryRun   bool
	FromYear int
	ToYear   int
	Sinks    []string
}

// NewCommand creates the update command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:       "update [makes|models|styles|readme]...",
		GroupID:   "core",
		Short:     "Rebuild the dataset from NHTSA vPIC",
		ValidArgs: []string{"makes", "models", "styles", "readme"},
		Args:      cobra.OnlyValidArgs,
		Long: `Update rebuilds the dataset by running the pipeline stages in order:

1. makes  - discover makes and classify them against the allow/deny lists
2. models - list each make's models and scan model years for presence
3. styles - fetch per-year style labels and match them to models
4. readme - rewrite the statistics section of the README

Without arguments every stage runs. Each stage hands its tree to the next,
so --dry-run exercises the whole pipeline without writing anything.`,
		Example: `  carmap update                        # Run every stage
  carmap update styles readme          # Rebuild styles from the saved models
  carmap update --make mazda           # Only touch Mazda
  carmap update --dry-run -o json      # Preview the run summary
  carmap update --sink sqlite          # Also rebuild the SQLite export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.Context(), app, flags, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.Make, "make", "", "only update the make with this slug")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "run every stage without persisting anything")
	cmd.Flags().IntVar(&flags.FromYear, "from-year", 0, "first model year to scan (default from config)")
	cmd.Flags().IntVar(&flags.ToYear, "to-year", 0, "last model year to scan (default from config)")
	cmd.Flags().StringSliceVar(&flags.Sinks, "sink", nil, "sinks that receive the tree after the styles stage: sqlite, neo4j")

	return cmd
}
