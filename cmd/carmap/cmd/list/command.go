// Package list provides the list command and its subcommands.
package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/pkg/errors"
)

// NewCommand creates the list command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [resource]",
		GroupID: "core",
		Short:   "List makes, models and styles from the dataset",
		Long: `List reads the persisted dataset.

Available subcommands:
  makes   - makes with their year span
  models  - models of one make
  styles  - style labels of one model`,
		Example: `  carmap list makes --year 2003
  carmap list models mazda
  carmap list styles mazda Protege5 --year 2003`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return errors.NewValidationError("resource", args[0], "unknown resource")
		},
	}

	cmd.AddCommand(NewMakesCommand(app))
	cmd.AddCommand(NewModelsCommand(app))
	cmd.AddCommand(NewStylesCommand(app))
	return cmd
}
