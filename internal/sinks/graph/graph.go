// Package graph exports the carmap tree to Neo4j as
// (:Make)-[:HAS_MODEL]->(:VehicleModel)-[:HAS_STYLE]->(:Style).
package graph

import (
	"context"
	"slices"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Runner executes one Cypher statement inside a transaction.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) error
}

// Session runs write transactions.
type Session interface {
	ExecuteWrite(ctx context.Context, work func(tx Runner) error) error
	Close(ctx context.Context) error
}

// SessionOpener opens sessions.
type SessionOpener interface {
	OpenSession(ctx context.Context) Session
}

// Statement is a parameterized Cypher statement.
type Statement struct {
	Cypher string
	Params map[string]any
}

const (
	mergeMake = `MERGE (mk:Make {id: $id})
SET mk.name = $name, mk.slug = $slug, mk.first_year = $firstYear, mk.last_year = $lastYear`

	mergeModel = `MERGE (m:VehicleModel {id: $id})
SET m.name = $name, m.vehicle_type = $vehicleType, m.years = $years, m.make_id = $makeID
WITH m
MATCH (mk:Make {id: $makeID})
MERGE (mk)-[:HAS_MODEL]->(m)`

	mergeStyle = `MERGE (s:Style {key: $key})
SET s.label = $label, s.years = $years
WITH s
MATCH (m:VehicleModel {id: $modelID})
MERGE (m)-[:HAS_STYLE]->(s)`
)

// Statements returns the statements that upsert one make, its models and their styles.
func Statements(m *vehicles.Make) []Statement {
	var firstYear, lastYear any
	if first, last, ok := m.Span(); ok {
		firstYear, lastYear = int64(first), int64(last)
	}
	stmts := []Statement{{
		Cypher: mergeMake,
		Params: map[string]any{
			"id":        int64(m.ID),
			"name":      m.Name,
			"slug":      m.Slug,
			"firstYear": firstYear,
			"lastYear":  lastYear,
		},
	}}

	for _, name := range m.ModelNames() {
		model := m.Models[name]
		stmts = append(stmts, Statement{
			Cypher: mergeModel,
			Params: map[string]any{
				"id":          int64(model.ID),
				"name":        model.Name,
				"vehicleType": model.VehicleType.String(),
				"years":       years(model.Years),
				"makeID":      int64(m.ID),
			},
		})
		for _, label := range sortedLabels(model.Styles) {
			stmts = append(stmts, Statement{
				Cypher: mergeStyle,
				Params: map[string]any{
					"key":     StyleKey(m.Slug, model.ID, label),
					"label":   label,
					"years":   years(model.Styles[label].Years),
					"modelID": int64(model.ID),
				},
			})
		}
	}
	return stmts
}

// StyleKey identifies a style node. Labels are only unique within a model.
func StyleKey(makeSlug string, modelID int, label string) string {
	return makeSlug + "/" + strconv.Itoa(modelID) + "/" + label
}

func years(y vehicles.Years) []int64 {
	out := make([]int64, len(y))
	for i, year := range y {
		out[i] = int64(year)
	}
	return out
}

func sortedLabels(styles vehicles.Styles) []string {
	labels := make([]string, 0, len(styles))
	for label, st := range styles {
		if st != nil {
			labels = append(labels, label)
		}
	}
	slices.Sort(labels)
	return labels
}

// Sink writes the tree to Neo4j, one write transaction per make.
type Sink struct {
	opener SessionOpener
	closer func(context.Context) error
}

// New creates a sink over an opener.
func New(opener SessionOpener) *Sink {
	return &Sink{opener: opener}
}

// Connect opens a Neo4j driver and verifies connectivity.
func Connect(ctx context.Context, uri, username, password string) (*Sink, error) {
	auth := neo4j.NoAuth()
	if username != "" {
		auth = neo4j.BasicAuth(username, password, "")
	}
	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, errors.NewConfigError("neo4j", "invalid driver configuration", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.WrapResource("connect", "neo4j", uri, err)
	}
	return &Sink{opener: driverOpener{driver: driver}, closer: driver.Close}, nil
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return "neo4j"
}

// Write upserts every make. A failed make aborts the export.
func (s *Sink) Write(ctx context.Context, makes []*vehicles.Make) error {
	logger := logging.FromContext(ctx)
	sess := s.opener.OpenSession(ctx)
	defer func() {
		if err := sess.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to close neo4j session")
		}
	}()

	for _, m := range makes {
		stmts := Statements(m)
		err := sess.ExecuteWrite(ctx, func(tx Runner) error {
			for _, st := range stmts {
				if err := tx.Run(ctx, st.Cypher, st.Params); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return errors.WrapResource("export", "make", m.Slug, err)
		}
		logger.Debug().Str("make", m.Slug).Int("statements", len(stmts)).Msg("Exported make to neo4j")
	}
	return nil
}

// Close releases the driver when the sink owns one.
func (s *Sink) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}

type driverOpener struct {
	driver neo4j.DriverWithContext
}

func (o driverOpener) OpenSession(ctx context.Context) Session {
	return driverSession{sess: o.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})}
}

type driverSession struct {
	sess neo4j.SessionWithContext
}

func (s driverSession) ExecuteWrite(ctx context.Context, work func(tx Runner) error) error {
	_, err := s.sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(txRunner{tx: tx})
	})
	return err
}

func (s driverSession) Close(ctx context.Context) error {
	return s.sess.Close(ctx)
}

type txRunner struct {
	tx neo4j.ManagedTransaction
}

func (r txRunner) Run(ctx context.Context, cypher string, params map[string]any) error {
	result, err := r.tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}
