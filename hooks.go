package carmap

import (
	"context"
	"sync"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Hook function types for pipeline events
type (
	// MakeAddedHook is called when an allowed make joins the dataset
	MakeAddedHook func(ctx context.Context, m *vehicles.Make)

	// UnclassifiedMakeHook is called when a discovered make is neither allowed nor denied
	UnclassifiedMakeHook func(ctx context.Context, entry classify.ReviewEntry)

	// OrphanHook is called the first time a style label matches no model of its make
	OrphanHook func(ctx context.Context, orphan vehicles.OrphanEntry)

	// UpdateCompleteHook is called when an update run finishes
	UpdateCompleteHook func(ctx context.Context, result *Result)
)

// Hooks provides event callback registration.
type Hooks interface {
	// OnMakeAdded registers a callback for when makes are added
	OnMakeAdded(fn MakeAddedHook)

	// OnUnclassifiedMake registers a callback for makes that need curation
	OnUnclassifiedMake(fn UnclassifiedMakeHook)

	// OnOrphan registers a callback for unmatched style labels
	OnOrphan(fn OrphanHook)

	// OnUpdateComplete registers a callback for finished runs
	OnUpdateComplete(fn UpdateCompleteHook)
}

// hooks manages event callbacks for pipeline runs
type hooks struct {
	mu                 sync.RWMutex
	onMakeAdded        []MakeAddedHook
	onUnclassifiedMake []UnclassifiedMakeHook
	onOrphan           []OrphanHook
	onUpdateComplete   []UpdateCompleteHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnMakeAdded registers a callback for when makes are added
func (h *hooks) OnMakeAdded(fn MakeAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMakeAdded = append(h.onMakeAdded, fn)
}

// OnUnclassifiedMake registers a callback for makes that need curation
func (h *hooks) OnUnclassifiedMake(fn UnclassifiedMakeHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUnclassifiedMake = append(h.onUnclassifiedMake, fn)
}

// OnOrphan registers a callback for unmatched style labels
func (h *hooks) OnOrphan(fn OrphanHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onOrphan = append(h.onOrphan, fn)
}

// OnUpdateComplete registers a callback for finished runs
func (h *hooks) OnUpdateComplete(fn UpdateCompleteHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUpdateComplete = append(h.onUpdateComplete, fn)
}

func (h *hooks) makeAdded(ctx context.Context, m *vehicles.Make) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onMakeAdded {
		fn(ctx, m)
	}
}

func (h *hooks) unclassifiedMake(ctx context.Context, entry classify.ReviewEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onUnclassifiedMake {
		fn(ctx, entry)
	}
}

func (h *hooks) orphan(ctx context.Context, orphan vehicles.OrphanEntry) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onOrphan {
		fn(ctx, orphan)
	}
}

func (h *hooks) updateComplete(ctx context.Context, result *Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onUpdateComplete {
		fn(ctx, result)
	}
}
