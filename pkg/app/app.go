// Package app exposes the trellis core through opaque integer handles.
//
// The shell boundary is "construct once, call repeatedly": a host builds a
// graph and gets back a [Handle], then passes that handle into every later
// paint, mark, and annotate call. The handle is the only thing that crosses
// the boundary; the graph itself never does.
//
// A [Registry] is the arena behind the handles. It also owns the
// serialization the core requires: the model packages carry no locks, so the
// registry takes one mutex per entry around every operation that touches a
// graph. Hosts calling through the same registry from several goroutines get
// a consistent model without external coordination.
//
// # Usage
//
//	h, err := app.Build(3, 4, trellis.UniformWeight(1))
//	if err != nil {
//	    return err
//	}
//	defer app.Release(h)
//
//	app.MarkStates(h, []int{0, 2, 1, 1})
//	err = app.Paint(h, layout.Viewport{Width: 800, Height: 600}, canvas)
package app

import (
	"sync"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/render"
	"github.com/lattix/trellis/pkg/trellis"
)

// Handle identifies one graph in a registry. Handles are opaque to the
// host; zero is never a valid handle.
type Handle int64

// entry pairs a graph with the painter that repaints it. The mutex is the
// single mutual-exclusion boundary around the model: markPath, annotate,
// and paint on one handle never interleave.
type entry struct {
	mu      sync.Mutex
	graph   *trellis.Graph
	painter *render.Painter
}

// Registry is an arena of graphs indexed by handle. The zero value is not
// usable; construct with [NewRegistry].
type Registry struct {
	mu      sync.Mutex
	next    int64
	entries map[Handle]*entry

	renderOpts []render.Option
}

// NewRegistry creates an empty registry. Render options apply to every
// graph's painter (labels, theme, layout margins).
func NewRegistry(opts ...render.Option) *Registry {
	return &Registry{
		entries:    make(map[Handle]*entry),
		renderOpts: opts,
	}
}

// Build constructs a graph and registers it, returning its handle. It fails
// with the model's INVALID_DIMENSION error for bad dimensions.
func (r *Registry) Build(states, layers int, fn trellis.WeightFunc) (Handle, error) {
	g, err := trellis.Build(states, layers, fn)
	if err != nil {
		return 0, err
	}
	return r.Add(g), nil
}

// Add registers an existing graph and returns its handle. Handles count up
// monotonically and are never reused within the registry's lifetime, so a
// released handle stays invalid instead of silently aliasing a newer graph.
func (r *Registry) Add(g *trellis.Graph) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	h := Handle(r.next)
	r.entries[h] = &entry{
		graph:   g,
		painter: render.NewPainter(r.renderOpts...),
	}
	return h
}

// Paint renders the graph behind h onto c. The entry's painter persists
// across calls, so repainting into an unchanged viewport reuses the layout.
func (r *Registry) Paint(h Handle, vp layout.Viewport, c render.Canvas) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.painter.Paint(e.graph, vp, c)
}

// MarkPath highlights exactly the referenced edges on the graph behind h,
// clearing every other highlight. A nil sequence clears all highlights.
func (r *Registry) MarkPath(h Handle, refs []trellis.EdgeRef) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.MarkPath(refs)
}

// MarkStates highlights the path visiting the given state in every layer.
func (r *Registry) MarkStates(h Handle, states []int) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.MarkStatePath(states)
}

// Annotate sets the annotation on one node of the graph behind h.
func (r *Registry) Annotate(h Handle, layer, state int, value float64) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Annotate(layer, state, value)
}

// View runs fn on the graph behind h under the entry's lock. Shells use it
// to read the model (serialize it, inspect dimensions) without the graph
// pointer escaping the serialization boundary.
//
// fn must not retain the graph after returning.
func (r *Registry) View(h Handle, fn func(g *trellis.Graph) error) error {
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.graph)
}

// Release drops the graph behind h. Further calls with h fail with
// HANDLE_NOT_FOUND. Releasing an unknown handle is itself an error, which
// catches double-release bugs in hosts.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[h]; !ok {
		return errors.New(errors.ErrCodeHandleNotFound, "unknown handle %d", h)
	}
	delete(r.entries, h)
	return nil
}

// Len returns the number of live graphs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// lookup resolves a handle to its entry.
func (r *Registry) lookup(h Handle) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h]
	if !ok {
		return nil, errors.New(errors.ErrCodeHandleNotFound, "unknown handle %d", h)
	}
	return e, nil
}

// defaultRegistry backs the package-level functions, mirroring the original
// shell's single implicit app arena.
var defaultRegistry = NewRegistry()

// Build constructs a graph in the default registry.
func Build(states, layers int, fn trellis.WeightFunc) (Handle, error) {
	return defaultRegistry.Build(states, layers, fn)
}

// Paint renders a graph from the default registry.
func Paint(h Handle, vp layout.Viewport, c render.Canvas) error {
	return defaultRegistry.Paint(h, vp, c)
}

// MarkPath highlights an edge sequence on a graph in the default registry.
func MarkPath(h Handle, refs []trellis.EdgeRef) error {
	return defaultRegistry.MarkPath(h, refs)
}

// MarkStates highlights a per-layer state path on a graph in the default
// registry.
func MarkStates(h Handle, states []int) error {
	return defaultRegistry.MarkStates(h, states)
}

// Annotate sets a node annotation on a graph in the default registry.
func Annotate(h Handle, layer, state int, value float64) error {
	return defaultRegistry.Annotate(h, layer, state, value)
}

// Release drops a graph from the default registry.
func Release(h Handle) error {
	return defaultRegistry.Release(h)
}
