// Package review provides the review command.
package review

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/output"
)

// NewCommand creates the review command.
func NewCommand(app application.Application) *cobra.Command {
	var passengerOnly bool
	cmd := &cobra.Command{
		Use:     "review",
		GroupID: "review",
		Short:   "Show makes waiting for allow/deny curation",
		Long: `Review prints the makes found by the last full makes stage that are on
neither the allow list nor the deny list. Add each one to the
classification file to include or exclude it from the dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := app.Carmap()
			if err != nil {
				return err
			}
			entries, err := cm.Unclassified()
			if err != nil {
				return err
			}
			if passengerOnly {
				kept := entries[:0]
				for _, e := range entries {
					if e.Passenger {
						kept = append(kept, e)
					}
				}
				entries = kept
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Print(cmd.OutOrStdout(), format, entries, output.ReviewTable(entries))
		},
	}
	cmd.Flags().BoolVar(&passengerOnly, "passenger", false, "only makes that produce passenger vehicles")
	return cmd
}
