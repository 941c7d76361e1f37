// Package orphans provides the orphans command.
package orphans

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// NewCommand creates the orphans command.
func NewCommand(app application.Application) *cobra.Command {
	var makeName string
	cmd := &cobra.Command{
		Use:     "orphans",
		GroupID: "review",
		Short:   "Show style labels that matched no model",
		Long: `Orphans prints the persisted orphan report: for each make, the style
labels that matched none of its models, together with the model names
they could have been assigned to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := app.Carmap()
			if err != nil {
				return err
			}
			report, err := cm.Orphans()
			if err != nil {
				return err
			}
			if makeName != "" {
				report, err = filter(report, makeName)
				if err != nil {
					return err
				}
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Print(cmd.OutOrStdout(), format, report, output.OrphansTable(report))
		},
	}
	cmd.Flags().StringVar(&makeName, "make", "", "only show this make (name or slug)")
	return cmd
}

func filter(report vehicles.OrphanReport, makeName string) (vehicles.OrphanReport, error) {
	slug := vehicles.Slugify(makeName)
	for name, entry := range report {
		if vehicles.Slugify(name) == slug {
			return vehicles.OrphanReport{name: entry}, nil
		}
	}
	return nil, errors.NewNotFoundError("make", makeName)
}
