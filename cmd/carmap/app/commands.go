package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/cmd/carmap/cmd/export"
	"github.com/agentstation/carmap/cmd/carmap/cmd/list"
	"github.com/agentstation/carmap/cmd/carmap/cmd/orphans"
	"github.com/agentstation/carmap/cmd/carmap/cmd/review"
	"github.com/agentstation/carmap/cmd/carmap/cmd/update"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	// Review commands
	rootCmd.AddCommand(orphans.NewCommand(a))
	rootCmd.AddCommand(review.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("carmap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
