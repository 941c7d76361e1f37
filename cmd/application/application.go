// Package application provides the application interface for carmap commands.
//
// Commands accept this interface rather than the concrete App type so they can
// be tested with internal/cmd/application.Mock.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            cm, err := app.Carmap()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use cm
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap"
)

// Application provides the application interface that commands need.
type Application interface {
	// Carmap returns the pipeline instance built from configuration.
	// Without options it returns the cached default instance. With options it
	// creates a new instance with the options applied after the configured ones.
	Carmap(opts ...carmap.Option) (carmap.Carmap, error)

	// OpenSink opens a named export sink ("sqlite" or "neo4j") from configuration.
	// The returned close function must be called when the sink is no longer needed.
	OpenSink(ctx context.Context, name string) (carmap.Sink, func() error, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
