// Package layout maps trellis nodes onto a bounded viewport.
//
// Placement is a plain grid: one column per layer spread across the width,
// one row per state spread across the height, with a fixed margin fraction
// keeping nodes off the edges. The mapping is a pure function of
// (viewport, dimensions, options), so identical inputs always produce
// identical positions, and [Grid.NodeAt] can recover a node's identity from
// a position for hit-testing.
package layout

import (
	"math"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/trellis"
)

// Default ratios applied by Build when no option overrides them.
const (
	// DefaultMarginRatio is the fraction of each viewport dimension kept
	// free on every side.
	DefaultMarginRatio = 0.08

	// DefaultRadiusRatio sets the node radius relative to the smaller of
	// the column and row spacings.
	DefaultRadiusRatio = 0.25
)

// Point is a position on the drawing surface, origin at the top-left,
// Y increasing downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the bounded drawing-surface region supplied per render call.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the viewport has drawable area.
func (v Viewport) Valid() bool { return v.Width > 0 && v.Height > 0 }

// Area returns the viewport area in surface units.
func (v Viewport) Area() float64 { return v.Width * v.Height }

// Option adjusts grid construction.
type Option func(*Grid)

// WithMarginRatio sets the margin fraction of width/height (default 0.08).
// Must lie in [0, 0.5) or Build fails.
func WithMarginRatio(r float64) Option { return func(g *Grid) { g.marginRatio = r } }

// WithRadiusRatio sets the node radius as a fraction of the smaller grid
// spacing (default 0.25). Must be positive or Build fails.
func WithRadiusRatio(r float64) Option { return func(g *Grid) { g.radiusRatio = r } }

// Grid is a computed placement for one (graph dimensions, viewport) pair.
// Construct with [Build]; the zero value is not usable.
type Grid struct {
	states int
	layers int
	vp     Viewport

	marginRatio float64
	radiusRatio float64

	marginX, marginY float64
	colStep, rowStep float64 // 0 when the axis has a single column/row
	radius           float64
}

// Build computes the grid for the given graph and viewport. It fails with
// EMPTY_GRAPH for a nil or zero-dimension graph and SURFACE_UNAVAILABLE for
// a viewport without drawable area.
func Build(g *trellis.Graph, vp Viewport, opts ...Option) (*Grid, error) {
	if g == nil || g.States() == 0 || g.Layers() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "layout needs a non-empty graph")
	}
	return BuildDims(g.States(), g.Layers(), vp, opts...)
}

// BuildDims computes the grid for raw dimensions, for callers that have no
// graph at hand (serialized layouts, tests). states and layers must be
// positive.
func BuildDims(states, layers int, vp Viewport, opts ...Option) (*Grid, error) {
	if states <= 0 || layers <= 0 {
		return nil, errors.New(errors.ErrCodeEmptyGraph,
			"layout undefined for %d states x %d layers", states, layers)
	}
	if err := errors.ValidateViewport(vp.Width, vp.Height); err != nil {
		return nil, err
	}

	grid := &Grid{
		states:      states,
		layers:      layers,
		vp:          vp,
		marginRatio: DefaultMarginRatio,
		radiusRatio: DefaultRadiusRatio,
	}
	for _, opt := range opts {
		opt(grid)
	}
	if grid.marginRatio < 0 || grid.marginRatio >= 0.5 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"margin ratio %g outside [0, 0.5)", grid.marginRatio)
	}
	if grid.radiusRatio <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"radius ratio %g must be positive", grid.radiusRatio)
	}

	grid.marginX = grid.marginRatio * vp.Width
	grid.marginY = grid.marginRatio * vp.Height

	usableW := vp.Width - 2*grid.marginX
	usableH := vp.Height - 2*grid.marginY

	colSpace := usableW
	if layers > 1 {
		grid.colStep = usableW / float64(layers-1)
		colSpace = grid.colStep
	}
	rowSpace := usableH
	if states > 1 {
		grid.rowStep = usableH / float64(states-1)
		rowSpace = grid.rowStep
	}

	grid.radius = grid.radiusRatio * math.Min(colSpace, rowSpace)
	return grid, nil
}

// Position returns the center of the node at (layer, state). A single
// column or row is centered on its axis. Coordinates outside the graph
// extrapolate the grid; callers are expected to stay in range.
func (g *Grid) Position(layer, state int) Point {
	x := g.vp.Width / 2
	if g.layers > 1 {
		x = g.marginX + float64(layer)*g.colStep
	}
	y := g.vp.Height / 2
	if g.states > 1 {
		y = g.marginY + float64(state)*g.rowStep
	}
	return Point{X: x, Y: y}
}

// NodeAt inverts the placement: it returns the node whose marker contains
// the point, or ok=false when the point hits no node.
func (g *Grid) NodeAt(p Point) (layer, state int, ok bool) {
	layer = nearestIndex(p.X, g.marginX, g.colStep, g.layers)
	state = nearestIndex(p.Y, g.marginY, g.rowStep, g.states)

	pos := g.Position(layer, state)
	if math.Hypot(p.X-pos.X, p.Y-pos.Y) > g.radius {
		return 0, 0, false
	}
	return layer, state, true
}

// nearestIndex finds the grid index closest to coordinate c along one axis.
func nearestIndex(c, margin, step float64, count int) int {
	if count <= 1 || step == 0 {
		return 0
	}
	i := int(math.Round((c - margin) / step))
	if i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}

// Viewport returns the viewport the grid was built for.
func (g *Grid) Viewport() Viewport { return g.vp }

// States returns the row count of the grid.
func (g *Grid) States() int { return g.states }

// Layers returns the column count of the grid.
func (g *Grid) Layers() int { return g.layers }

// Radius returns the node marker radius derived from the grid spacing.
func (g *Grid) Radius() float64 { return g.radius }

// ColumnSpacing returns the horizontal distance between adjacent layers,
// or the full usable width when there is a single layer.
func (g *Grid) ColumnSpacing() float64 {
	if g.layers > 1 {
		return g.colStep
	}
	return g.vp.Width - 2*g.marginX
}

// RowSpacing returns the vertical distance between adjacent states, or the
// full usable height when there is a single state.
func (g *Grid) RowSpacing() float64 {
	if g.states > 1 {
		return g.rowStep
	}
	return g.vp.Height - 2*g.marginY
}

// MarginX returns the horizontal margin in surface units.
func (g *Grid) MarginX() float64 { return g.marginX }

// MarginY returns the vertical margin in surface units.
func (g *Grid) MarginY() float64 { return g.marginY }
