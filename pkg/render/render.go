package render

import (
	"fmt"
	"image/color"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/trellis"
)

// Canvas is the drawing-surface capability the renderer draws against.
// All four primitives are synchronous and must not fail; preconditions
// (usable surface, non-empty graph) are checked by Paint before the first
// command is issued.
//
// Text draws s centered on the given point, both horizontally and
// vertically.
type Canvas interface {
	Clear(vp layout.Viewport, style Fill)
	Line(from, to layout.Point, style Stroke)
	Node(center layout.Point, radius float64, style Shape)
	Text(at layout.Point, s string, style Label)
}

// Option adjusts how a Painter emits commands.
type Option func(*Painter)

// WithLabels enables the per-node text phase. Labels show the node's
// annotation value when one is set and the state index otherwise.
func WithLabels(enabled bool) Option { return func(p *Painter) { p.labels = enabled } }

// WithTheme replaces the default theme.
func WithTheme(t Theme) Option { return func(p *Painter) { p.theme = t } }

// WithLayoutOptions forwards options to the layout grid (margins, radius).
func WithLayoutOptions(opts ...layout.Option) Option {
	return func(p *Painter) { p.layoutOpts = opts }
}

// Painter emits paint command sequences for trellis graphs. It memoizes
// the layout grid keyed by (viewport, graph dimensions), so repainting the
// same model into an unchanged viewport skips the placement work.
//
// A Painter is not safe for concurrent use.
type Painter struct {
	theme      Theme
	labels     bool
	layoutOpts []layout.Option

	memo    *layout.Grid
	memoKey gridKey
}

type gridKey struct {
	width  float64
	height float64
	states int
	layers int
}

// NewPainter creates a Painter with the default theme.
func NewPainter(opts ...Option) *Painter {
	p := &Painter{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paint renders g onto c in one shot with a fresh Painter. Shells that
// repaint the same graph repeatedly should hold a [Painter] instead to
// reuse its layout memo.
func Paint(g *trellis.Graph, vp layout.Viewport, c Canvas, opts ...Option) error {
	return NewPainter(opts...).Paint(g, vp, c)
}

// Paint emits the full command sequence for g onto c. It never mutates the
// graph, and it re-emits everything on every call; there is no retained
// scene graph to diff against.
//
// Paint fails with SURFACE_UNAVAILABLE when c is nil or the viewport has no
// drawable area, and with EMPTY_GRAPH when g is nil or has no nodes. On
// failure no command has been issued.
func (p *Painter) Paint(g *trellis.Graph, vp layout.Viewport, c Canvas) error {
	if c == nil {
		return errors.New(errors.ErrCodeSurfaceUnavailable, "no drawing surface supplied")
	}
	if err := errors.ValidateViewport(vp.Width, vp.Height); err != nil {
		return err
	}
	if g == nil || g.States() == 0 || g.Layers() == 0 {
		return errors.New(errors.ErrCodeEmptyGraph, "nothing to render")
	}

	grid, err := p.grid(g, vp)
	if err != nil {
		return err
	}

	c.Clear(vp, p.theme.Background)
	p.paintEdges(g, grid, c, false, p.theme.Edge)
	p.paintEdges(g, grid, c, true, p.theme.HighlightedEdge)
	p.paintNodes(g, grid, c)
	if p.labels {
		p.paintLabels(g, grid, c)
	}
	return nil
}

// grid returns the memoized layout grid, rebuilding it when the viewport
// or graph dimensions changed since the last call.
func (p *Painter) grid(g *trellis.Graph, vp layout.Viewport) (*layout.Grid, error) {
	key := gridKey{vp.Width, vp.Height, g.States(), g.Layers()}
	if p.memo != nil && p.memoKey == key {
		return p.memo, nil
	}
	grid, err := layout.Build(g, vp, p.layoutOpts...)
	if err != nil {
		return nil, err
	}
	p.memo, p.memoKey = grid, key
	return grid, nil
}

// paintEdges draws every edge whose highlight flag equals highlighted, as a
// straight segment between the endpoint node centers.
func (p *Painter) paintEdges(g *trellis.Graph, grid *layout.Grid, c Canvas, highlighted bool, style Stroke) {
	for layer := 0; layer < g.Layers()-1; layer++ {
		for from := 0; from < g.States(); from++ {
			start := grid.Position(layer, from)
			for to := 0; to < g.States(); to++ {
				if g.Highlighted(layer, from, to) != highlighted {
					continue
				}
				c.Line(start, grid.Position(layer+1, to), style)
			}
		}
	}
}

func (p *Painter) paintNodes(g *trellis.Graph, grid *layout.Grid, c Canvas) {
	min, max, ok := g.AnnotationRange()
	ramp := ok && max > min

	for layer := 0; layer < g.Layers(); layer++ {
		for state := 0; state < g.States(); state++ {
			style := p.theme.Node
			if ramp {
				if v, set := g.Annotation(layer, state); set {
					style.Fill = p.nodeRampFill(v, min, max)
				}
			}
			c.Node(grid.Position(layer, state), grid.Radius(), style)
		}
	}
}

func (p *Painter) paintLabels(g *trellis.Graph, grid *layout.Grid, c Canvas) {
	for layer := 0; layer < g.Layers(); layer++ {
		for state := 0; state < g.States(); state++ {
			c.Text(grid.Position(layer, state), nodeLabel(g, layer, state), p.theme.Label)
		}
	}
}

// nodeRampFill maps an annotation value onto the theme's fill ramp.
func (p *Painter) nodeRampFill(v, min, max float64) color.Color {
	return lerpColor(p.theme.NodeFillLow, p.theme.NodeFillHigh, (v-min)/(max-min))
}

// nodeLabel is the text shown for a node: its annotation when set, the
// state index otherwise.
func nodeLabel(g *trellis.Graph, layer, state int) string {
	if v, ok := g.Annotation(layer, state); ok {
		return fmt.Sprintf("%.4g", v)
	}
	return fmt.Sprintf("s%d", state)
}
