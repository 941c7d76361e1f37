// Package classify decides which discovered makes belong in the published
// dataset. The decision is a lookup of the make slug in curated allow and
// deny lists loaded from YAML. Makes in neither list are Unknown and are
// reported for review instead of being published.
package classify

import (
	_ "embed"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/carmap/pkg/errors"
)

//go:embed default_lists.yaml
var defaultLists []byte

// Classification is the outcome of looking up a make slug.
type Classification int

// Classifications.
const (
	Unknown Classification = iota
	Allowed
	Denied
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	switch c {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Classifier classifies make slugs.
type Classifier interface {
	Classify(slug string) Classification
}

// ClassifierFunc allows functions to implement Classifier.
type ClassifierFunc func(slug string) Classification

// Classify implements the Classifier interface.
func (f ClassifierFunc) Classify(slug string) Classification {
	return f(slug)
}

// Lists is the curated classification data.
type Lists struct {
	Allow   []string          `yaml:"allow" json:"allow"`
	Deny    []string          `yaml:"deny" json:"deny"`
	Renames map[string]string `yaml:"renames" json:"renames"`
	SkipIDs []int             `yaml:"skip_ids" json:"skip_ids"`

	allow map[string]bool
	deny  map[string]bool
}

// Parse decodes YAML classification lists.
func Parse(data []byte) (*Lists, error) {
	var lists Lists
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return nil, errors.WrapParse("yaml", "classification lists", err)
	}
	if err := lists.index(); err != nil {
		return nil, err
	}
	return &lists, nil
}

// Load reads classification lists from a YAML file.
func Load(path string) (*Lists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data)
}

// Default returns the embedded classification lists.
func Default() *Lists {
	lists, err := Parse(defaultLists)
	if err != nil {
		panic("embedded classification lists are invalid: " + err.Error())
	}
	return lists
}

func (l *Lists) index() error {
	l.allow = make(map[string]bool, len(l.Allow))
	l.deny = make(map[string]bool, len(l.Deny))
	for _, slug := range l.Allow {
		l.allow[slug] = true
	}
	for _, slug := range l.Deny {
		if l.allow[slug] {
			return errors.NewConfigError("classification", "make "+slug+" is both allowed and denied", nil)
		}
		l.deny[slug] = true
	}
	return nil
}

// Classify implements the Classifier interface.
func (l *Lists) Classify(slug string) Classification {
	switch {
	case l.allow[slug]:
		return Allowed
	case l.deny[slug]:
		return Denied
	}
	return Unknown
}

// Rename returns the configured replacement for a source make name.
func (l *Lists) Rename(name string) string {
	if renamed, ok := l.Renames[name]; ok {
		return renamed
	}
	return name
}

// Skip reports whether a source make id is ignored.
func (l *Lists) Skip(makeID int) bool {
	return slices.Contains(l.SkipIDs, makeID)
}
