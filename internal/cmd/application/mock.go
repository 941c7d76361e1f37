// Package application provides test doubles for the command application interface.
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/carmap"
)

// Mock provides a mock implementation of Application for testing.
// If a function field is nil, the method returns a default/zero value.
//
//	mock := &application.Mock{
//	    CarmapFunc: func(opts ...carmap.Option) (carmap.Carmap, error) {
//	        return testCarmap, nil
//	    },
//	}
//	cmd := list.NewCommand(mock)
type Mock struct {
	CarmapFunc       func(opts ...carmap.Option) (carmap.Carmap, error)
	OpenSinkFunc     func(ctx context.Context, name string) (carmap.Sink, func() error, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Carmap returns a pipeline instance using the mock function or nil.
func (m *Mock) Carmap(opts ...carmap.Option) (carmap.Carmap, error) {
	if m.CarmapFunc != nil {
		return m.CarmapFunc(opts...)
	}
	return nil, nil
}

// OpenSink returns a sink using the mock function or nil.
func (m *Mock) OpenSink(ctx context.Context, name string) (carmap.Sink, func() error, error) {
	if m.OpenSinkFunc != nil {
		return m.OpenSinkFunc(ctx, name)
	}
	return nil, func() error { return nil }, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
