// Package persistence stores the carmap dataset as JSON files in a data directory:
//
//	makes_and_models.json      every make, its models and year coverage
//	styles/<make_slug>.json    {model_name: {style_label: {years}}}
//	all_orphaned_styles.json   unmatched style labels per make
//	unclassified_makes.json    makes waiting for allow/deny curation
//
// The dataset assumes a single writer.
package persistence

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Store reads and writes the dataset files under one directory.
type Store struct {
	dir string
}

// New creates a store rooted at dataDir.
func New(dataDir string) *Store {
	if dataDir == "" {
		dataDir = constants.DefaultDataDir
	}
	return &Store{dir: dataDir}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(parts ...string) string {
	return filepath.Join(append([]string{s.dir}, parts...)...)
}

// LoadMakes reads the makes file. A missing file is an empty dataset.
// Makes that break the dataset invariants are logged and left out.
func (s *Store) LoadMakes() ([]*vehicles.Make, error) {
	var loaded []*vehicles.Make
	found, err := s.readJSON(s.path(constants.MakesFile), &loaded)
	if err != nil || !found {
		return nil, err
	}
	makes := make([]*vehicles.Make, 0, len(loaded))
	for _, m := range loaded {
		if m == nil {
			continue
		}
		if m.Models == nil {
			m.Models = make(map[string]*vehicles.Model)
		}
		for _, model := range m.Models {
			if model.Styles == nil {
				model.Styles = vehicles.Styles{}
			}
			if model.Years == nil {
				model.Years = vehicles.Years{}
			}
		}
		if err := m.Validate(); err != nil {
			logging.Warn().Err(err).Int("make_id", m.ID).Str("make", m.Slug).Msg("Skipping invalid make in dataset")
			continue
		}
		makes = append(makes, m)
	}
	return makes, nil
}

// SaveMakes writes the makes file sorted by slug. Styles live in their own
// files, so every model is written with an empty style map.
func (s *Store) SaveMakes(makes []*vehicles.Make) error {
	out := make([]*vehicles.Make, 0, len(makes))
	for _, m := range makes {
		out = append(out, withoutStyles(m))
	}
	vehicles.SortBySlug(out)
	return s.writeJSON(s.path(constants.MakesFile), out)
}

func withoutStyles(m *vehicles.Make) *vehicles.Make {
	cp := *m
	cp.Models = make(map[string]*vehicles.Model, len(m.Models))
	for name, model := range m.Models {
		mc := *model
		mc.Styles = vehicles.Styles{}
		if mc.Years == nil {
			mc.Years = vehicles.Years{}
		}
		cp.Models[name] = &mc
	}
	return &cp
}

// LoadStyles reads the style file of a make. A missing file is a NotFoundError.
func (s *Store) LoadStyles(slug string) (map[string]vehicles.Styles, error) {
	var styles map[string]vehicles.Styles
	found, err := s.readJSON(s.stylesPath(slug), &styles)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NewNotFoundError("styles", slug)
	}
	return styles, nil
}

// SaveStyles writes the style file of a make. Every model of the make gets a
// key, with an empty map when it has no styles.
func (s *Store) SaveStyles(m *vehicles.Make) error {
	styles := make(map[string]vehicles.Styles, len(m.Models))
	for name, model := range m.Models {
		if model.Styles == nil {
			styles[name] = vehicles.Styles{}
			continue
		}
		styles[name] = model.Styles
	}
	return s.writeJSON(s.stylesPath(m.Slug), styles)
}

func (s *Store) stylesPath(slug string) string {
	return s.path(constants.StylesDir, slug+".json")
}

// LoadDataset reads the makes file and attaches each make's styles.
// Makes without a style file keep empty style maps.
func (s *Store) LoadDataset() ([]*vehicles.Make, error) {
	makes, err := s.LoadMakes()
	if err != nil {
		return nil, err
	}
	for _, m := range makes {
		styles, err := s.LoadStyles(m.Slug)
		if errors.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for name, st := range styles {
			if model, ok := m.Models[name]; ok && st != nil {
				model.Styles = st
			}
		}
	}
	return makes, nil
}

// LoadOrphans reads the orphan report. A missing file is an empty report.
func (s *Store) LoadOrphans() (vehicles.OrphanReport, error) {
	report := vehicles.OrphanReport{}
	if _, err := s.readJSON(s.path(constants.OrphansFile), &report); err != nil {
		return nil, err
	}
	return report, nil
}

// SaveOrphans writes the orphan report.
func (s *Store) SaveOrphans(report vehicles.OrphanReport) error {
	if report == nil {
		report = vehicles.OrphanReport{}
	}
	return s.writeJSON(s.path(constants.OrphansFile), report)
}

// LoadUnclassified reads the review list. A missing file is an empty list.
func (s *Store) LoadUnclassified() ([]classify.ReviewEntry, error) {
	var entries []classify.ReviewEntry
	if _, err := s.readJSON(s.path(constants.UnclassifiedFile), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveUnclassified writes the review list.
func (s *Store) SaveUnclassified(entries []classify.ReviewEntry) error {
	if entries == nil {
		entries = []classify.ReviewEntry{}
	}
	return s.writeJSON(s.path(constants.UnclassifiedFile), entries)
}

// readJSON decodes path into target and reports whether the file existed.
func (s *Store) readJSON(path string, target any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapIO("read", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return true, errors.WrapParse("json", path, err)
	}
	return true, nil
}

func (s *Store) writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.WrapParse("json", path, err)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
