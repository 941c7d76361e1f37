package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/cmd/output"
	"github.com/agentstation/carmap/pkg/query"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// NewMakesCommand creates the list makes subcommand.
func NewMakesCommand(app application.Application) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "makes",
		Short: "List makes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := index(app)
			if err != nil {
				return err
			}
			makes := idx.Makes()
			if year != 0 {
				makes = idx.MakesForYear(year)
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Print(cmd.OutOrStdout(), format, makes, output.MakesTable(makes))
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "only makes whose span contains this model year")
	return cmd
}

// NewModelsCommand creates the list models subcommand.
func NewModelsCommand(app application.Application) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "models <make>",
		Short: "List the models of a make",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := index(app)
			if err != nil {
				return err
			}
			var models []*vehicles.Model
			if year != 0 {
				models, err = idx.ModelsForYear(year, args[0])
			} else {
				models, err = allModels(idx, args[0])
			}
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Print(cmd.OutOrStdout(), format, models, output.ModelsTable(models))
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "only models produced in this model year")
	return cmd
}

// NewStylesCommand creates the list styles subcommand.
func NewStylesCommand(app application.Application) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "styles <make> <model>",
		Short: "List the style labels of a model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := index(app)
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			if year != 0 {
				labels, err := idx.StylesForYear(year, args[0], args[1])
				if err != nil {
					return err
				}
				table := &output.Data{Headers: []string{"Style"}}
				for _, label := range labels {
					table.Rows = append(table.Rows, []string{label})
				}
				return output.Print(cmd.OutOrStdout(), format, labels, table)
			}
			model, err := idx.Model(args[0], args[1])
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), format, model.Styles, output.StylesTable(model.Styles))
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "only styles seen in this model year")
	return cmd
}

func index(app application.Application) (*query.Index, error) {
	cm, err := app.Carmap()
	if err != nil {
		return nil, err
	}
	return cm.Query()
}

func allModels(idx *query.Index, makeName string) ([]*vehicles.Model, error) {
	m, err := idx.MakeByName(makeName)
	if err != nil {
		return nil, err
	}
	models := make([]*vehicles.Model, 0, len(m.Models))
	for _, name := range m.ModelNames() {
		models = append(models, m.Models[name])
	}
	return models, nil
}
