// Package sqlite exports the carmap tree into a SQLite database so it can be
// queried with SQL. Every export rebuilds the tables in one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

const schema = `
CREATE TABLE IF NOT EXISTS makes (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL UNIQUE,
	first_year INTEGER,
	last_year  INTEGER
);

CREATE TABLE IF NOT EXISTS models (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	model_id     INTEGER NOT NULL,
	make_id      INTEGER NOT NULL REFERENCES makes(id),
	name         TEXT NOT NULL,
	vehicle_type TEXT NOT NULL,
	UNIQUE (make_id, name)
);

CREATE TABLE IF NOT EXISTS model_years (
	model_row INTEGER NOT NULL REFERENCES models(id),
	year      INTEGER NOT NULL,
	PRIMARY KEY (model_row, year)
);

CREATE TABLE IF NOT EXISTS styles (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	model_row INTEGER NOT NULL REFERENCES models(id),
	label     TEXT NOT NULL,
	UNIQUE (model_row, label)
);

CREATE TABLE IF NOT EXISTS style_years (
	style_id INTEGER NOT NULL REFERENCES styles(id),
	year     INTEGER NOT NULL,
	PRIMARY KEY (style_id, year)
);

CREATE INDEX IF NOT EXISTS idx_model_years_year ON model_years(year);
CREATE INDEX IF NOT EXISTS idx_style_years_year ON style_years(year);
`

// Sink writes the tree into a SQLite database file.
type Sink struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapResource("open", "database", path, err)
	}
	// One connection keeps the single-writer model explicit.
	db.SetMaxOpenConns(1)

	s := &Sink{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) initSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return errors.WrapResource("initialize", "schema", s.path, err)
	}
	return nil
}

// Name returns the sink name.
func (s *Sink) Name() string {
	return "sqlite"
}

// Path returns the database file path.
func (s *Sink) Path() string {
	return s.path
}

// Close closes the database.
func (s *Sink) Close() error {
	return s.db.Close()
}

// Write replaces the database contents with makes.
func (s *Sink) Write(ctx context.Context, makes []*vehicles.Make) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", "transaction", s.path, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"style_years", "styles", "model_years", "models", "makes"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.WrapResource("clear", "table", table, err)
		}
	}

	styleCount := 0
	for _, m := range makes {
		n, werr := writeMake(ctx, tx, m)
		if werr != nil {
			err = errors.WrapResource("export", "make", m.Slug, werr)
			return err
		}
		styleCount += n
	}

	if err = tx.Commit(); err != nil {
		return errors.WrapResource("commit", "transaction", s.path, err)
	}
	logging.FromContext(ctx).Info().
		Str("path", s.path).
		Int("makes", len(makes)).
		Int("styles", styleCount).
		Msg("Exported dataset to sqlite")
	return nil
}

func writeMake(ctx context.Context, tx *sql.Tx, m *vehicles.Make) (int, error) {
	var first, last sql.NullInt64
	if f, l, ok := m.Span(); ok {
		first = sql.NullInt64{Int64: int64(f), Valid: true}
		last = sql.NullInt64{Int64: int64(l), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO makes (id, name, slug, first_year, last_year) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Slug, first, last); err != nil {
		return 0, err
	}

	styles := 0
	for _, name := range m.ModelNames() {
		model := m.Models[name]
		res, err := tx.ExecContext(ctx,
			`INSERT INTO models (model_id, make_id, name, vehicle_type) VALUES (?, ?, ?, ?)`,
			model.ID, m.ID, model.Name, model.VehicleType.String())
		if err != nil {
			return 0, err
		}
		modelRow, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		for _, year := range model.Years {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO model_years (model_row, year) VALUES (?, ?)`, modelRow, year); err != nil {
				return 0, err
			}
		}

		for label, style := range model.Styles {
			if style == nil {
				continue
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO styles (model_row, label) VALUES (?, ?)`, modelRow, label)
			if err != nil {
				return 0, err
			}
			styleID, err := res.LastInsertId()
			if err != nil {
				return 0, err
			}
			for _, year := range style.Years {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO style_years (style_id, year) VALUES (?, ?)`, styleID, year); err != nil {
					return 0, err
				}
			}
			styles++
		}
	}
	return styles, nil
}

// StylesForYear returns the style labels of a make's model covering year.
func (s *Sink) StylesForYear(ctx context.Context, year int, makeSlug, modelName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT st.label
		FROM styles st
		JOIN style_years sy ON sy.style_id = st.id
		JOIN models mo ON mo.id = st.model_row
		JOIN makes mk ON mk.id = mo.make_id
		WHERE mk.slug = ? AND mo.name = ? AND sy.year = ?
		ORDER BY st.label`, makeSlug, modelName, year)
	if err != nil {
		return nil, errors.WrapResource("query", "styles", makeSlug, err)
	}
	defer func() { _ = rows.Close() }()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, errors.WrapResource("scan", "styles", makeSlug, err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}
