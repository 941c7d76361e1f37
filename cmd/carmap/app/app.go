// Package app provides the application context and dependency management
// for the carmap CLI: configuration, logging, the pipeline instance and the
// resources (event publisher, sinks) it owns for the life of a command.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap"
	"github.com/agentstation/carmap/cmd/application"
	"github.com/agentstation/carmap/internal/events"
	"github.com/agentstation/carmap/internal/sinks/graph"
	"github.com/agentstation/carmap/internal/sinks/sqlite"
	"github.com/agentstation/carmap/internal/sources/nhtsa"
	"github.com/agentstation/carmap/internal/transport"
	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the carmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Pipeline instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	carmap carmap.Carmap

	// NATS publisher shared by every pipeline instance
	pubMu     sync.Mutex
	publisher *events.Publisher
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Carmap returns the pipeline instance. Without options the instance is
// created once and cached. With options a new instance is returned.
func (a *App) Carmap(opts ...carmap.Option) (carmap.Carmap, error) {
	if len(opts) > 0 {
		base, err := a.buildCarmapOptions()
		if err != nil {
			return nil, err
		}
		cm, err := carmap.New(append(base, opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "carmap", "with custom options", err)
		}
		return cm, a.wireEvents(cm)
	}

	a.mu.RLock()
	if a.carmap != nil {
		cm := a.carmap
		a.mu.RUnlock()
		return cm, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.carmap != nil {
		return a.carmap, nil
	}

	base, err := a.buildCarmapOptions()
	if err != nil {
		return nil, err
	}
	cm, err := carmap.New(base...)
	if err != nil {
		return nil, errors.WrapResource("create", "carmap", "", err)
	}
	if err := a.wireEvents(cm); err != nil {
		return nil, err
	}
	a.carmap = cm
	return cm, nil
}

// buildCarmapOptions constructs pipeline options from the app configuration.
func (a *App) buildCarmapOptions() ([]carmap.Option, error) {
	client := transport.New(
		transport.WithSource(nhtsa.SourceName),
		transport.WithTimeout(a.config.HTTPTimeout),
		transport.WithRetries(a.config.MaxRetries, constants.RetryBackoff),
	)
	opts := []carmap.Option{
		carmap.WithDataDir(a.config.DataDir),
		carmap.WithReadmePath(a.config.ReadmePath),
		carmap.WithSource(nhtsa.New(
			nhtsa.WithBaseURL(a.config.VPICBaseURL),
			nhtsa.WithTransport(client),
		)),
	}
	if a.config.FromYear != 0 && a.config.ToYear != 0 {
		opts = append(opts, carmap.WithYearRange(a.config.FromYear, a.config.ToYear))
	}
	if a.config.ClassificationFile != "" {
		lists, err := classify.Load(a.config.ClassificationFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, carmap.WithClassification(lists))
	}
	return opts, nil
}

// wireEvents registers the NATS publisher on cm when nats_url is configured.
// The connection is shared by every instance and closed on Shutdown.
func (a *App) wireEvents(cm carmap.Carmap) error {
	if a.config.NATSURL == "" {
		return nil
	}
	pub, err := a.eventPublisher()
	if err != nil {
		return err
	}
	cm.OnMakeAdded(pub.OnMakeAdded)
	cm.OnUnclassifiedMake(pub.OnUnclassifiedMake)
	cm.OnOrphan(pub.OnOrphan)
	cm.OnUpdateComplete(func(ctx context.Context, r *carmap.Result) {
		pub.OnRunCompleted(ctx, r.Summary())
	})
	return nil
}

func (a *App) eventPublisher() (*events.Publisher, error) {
	a.pubMu.Lock()
	defer a.pubMu.Unlock()
	if a.publisher != nil {
		return a.publisher, nil
	}
	pub, err := events.Connect(a.config.NATSURL, a.config.NATSSubjectPrefix)
	if err != nil {
		return nil, err
	}
	a.logger.Info().Str("url", a.config.NATSURL).Msg("Publishing pipeline events to NATS")
	a.publisher = pub
	return pub, nil
}

// OpenSink opens a configured export sink by name.
func (a *App) OpenSink(ctx context.Context, name string) (carmap.Sink, func() error, error) {
	switch name {
	case "sqlite":
		sink, err := sqlite.Open(a.config.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink.Close, nil
	case "neo4j":
		if a.config.Neo4jURI == "" {
			return nil, nil, errors.NewConfigError("neo4j", "neo4j_uri is required", nil)
		}
		sink, err := graph.Connect(ctx, a.config.Neo4jURI, a.config.Neo4jUsername, a.config.Neo4jPassword)
		if err != nil {
			return nil, nil, err
		}
		return sink, func() error { return sink.Close(context.Background()) }, nil
	default:
		return nil, nil, errors.NewValidationError("sink", name, "must be one of sqlite, neo4j")
	}
}

// Shutdown releases resources held by the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.pubMu.Lock()
	pub := a.publisher
	a.publisher = nil
	a.pubMu.Unlock()

	if pub == nil {
		return nil
	}
	if err := pub.Close(); err != nil {
		return errors.WrapResource("close", "publisher", a.config.NATSURL, err)
	}
	logging.FromContext(ctx).Debug().Msg("Event publisher drained")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCarmap sets a custom pipeline instance (useful for testing).
func WithCarmap(cm carmap.Carmap) Option {
	return func(a *App) error {
		a.carmap = cm
		return nil
	}
}
