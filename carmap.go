// Package carmap builds and maintains a reference dataset of vehicle makes,
// models and trim styles sourced from the NHTSA vPIC API.
//
// An update runs in stages that each feed the next:
//
//   - makes: discover makes, classify them against curated allow/deny lists
//   - models: list each make's models and scan model years for presence
//   - styles: fetch per-year style labels and match each one to a model
//   - readme: rewrite the dataset statistics in the README
//
// Style labels that match no model are kept as orphans for manual review,
// and makes missing from both lists are collected for curation.
//
// Example usage:
//
//	cm, err := carmap.New(carmap.WithDataDir("data"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cm.OnOrphan(func(ctx context.Context, o vehicles.OrphanEntry) {
//	    log.Printf("unmatched style %q for %s", o.StyleLabel, o.MakeName)
//	})
//
//	result, err := cm.Update(ctx, carmap.WithTargetMake("mazda"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Styles.Styles, "styles")
package carmap

import (
	"github.com/agentstation/carmap/internal/persistence"
	"github.com/agentstation/carmap/internal/sources/nhtsa"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/sources"
)

// Compile-time interface check to ensure proper implementation.
var _ Carmap = (*client)(nil)

// Carmap runs the dataset pipeline and reads its output.
type Carmap interface {

	// Dataset provides read access to the persisted dataset
	Dataset

	// Updater runs pipeline stages
	Updater

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Carmap interface.
type client struct {
	options *options
	source  sources.Source
	store   *persistence.Store
	*hooks
}

// New creates a new Carmap instance with the given options.
func New(opts ...Option) (Carmap, error) {
	o := defaults()
	if err := o.apply(opts...); err != nil {
		return nil, errors.WrapResource("apply", "options", "carmap", err)
	}

	src := o.source
	if src == nil {
		src = nhtsa.New()
	}

	return &client{
		options: o,
		source:  src,
		store:   persistence.New(o.dataDir),
		hooks:   newHooks(),
	}, nil
}
