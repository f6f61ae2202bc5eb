package render_test

import (
	"testing"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/render"
	"github.com/lattix/trellis/pkg/render/canvas"
	"github.com/lattix/trellis/pkg/trellis"
)

func mustGraph(t *testing.T, states, layers int) *trellis.Graph {
	t.Helper()
	g, err := trellis.Build(states, layers, trellis.UniformWeight(1))
	if err != nil {
		t.Fatalf("Build(%d, %d): %v", states, layers, err)
	}
	return g
}

func TestPaintCommandCounts(t *testing.T) {
	// 3 states x 4 layers on a 300x200 surface.
	g := mustGraph(t, 3, 4)
	vp := layout.Viewport{Width: 300, Height: 200}

	rec := canvas.NewRecorder()
	if err := render.Paint(g, vp, rec); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	if got := rec.Count(canvas.OpClear); got != 1 {
		t.Errorf("clear commands = %d, want 1", got)
	}
	if got := rec.Count(canvas.OpLine); got != 27 {
		t.Errorf("line commands = %d, want 27", got)
	}
	if got := rec.Count(canvas.OpNode); got != 12 {
		t.Errorf("node commands = %d, want 12", got)
	}
	if got := rec.Count(canvas.OpText); got != 0 {
		t.Errorf("text commands = %d, want 0 (labels disabled)", got)
	}

	rec.Reset()
	if err := render.Paint(g, vp, rec, render.WithLabels(true)); err != nil {
		t.Fatalf("Paint with labels: %v", err)
	}
	if got := rec.Count(canvas.OpText); got != 12 {
		t.Errorf("text commands = %d, want 12 (one per node)", got)
	}
}

func TestPaintPhaseOrder(t *testing.T) {
	g := mustGraph(t, 3, 4)
	if err := g.MarkStatePath([]int{0, 2, 1, 1}); err != nil {
		t.Fatalf("MarkStatePath: %v", err)
	}

	rec := canvas.NewRecorder()
	if err := render.Paint(g, layout.Viewport{Width: 300, Height: 200}, rec, render.WithLabels(true)); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	ops := rec.Ops()

	if len(ops) == 0 || ops[0].Kind != canvas.OpClear {
		t.Fatal("first command is not the background clear")
	}

	// Phases must not interleave: clear, lines, nodes, labels.
	phase := func(k canvas.OpKind) int {
		switch k {
		case canvas.OpClear:
			return 0
		case canvas.OpLine:
			return 1
		case canvas.OpNode:
			return 2
		default:
			return 3
		}
	}
	for i := 1; i < len(ops); i++ {
		if phase(ops[i].Kind) < phase(ops[i-1].Kind) {
			t.Fatalf("command %d (%v) emitted after phase %v", i, ops[i].Kind, ops[i-1].Kind)
		}
	}
}

func TestPaintHighlightedEdgesLast(t *testing.T) {
	g := mustGraph(t, 3, 4)
	if err := g.MarkStatePath([]int{0, 2, 1, 1}); err != nil {
		t.Fatalf("MarkStatePath: %v", err)
	}

	theme := render.DefaultTheme()
	rec := canvas.NewRecorder()
	if err := render.Paint(g, layout.Viewport{Width: 300, Height: 200}, rec); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	lastPlain, firstMarked := -1, -1
	var plain, marked int
	for i, op := range rec.Ops() {
		if op.Kind != canvas.OpLine {
			continue
		}
		if op.Stroke.Width == theme.HighlightedEdge.Width {
			marked++
			if firstMarked == -1 {
				firstMarked = i
			}
		} else {
			plain++
			lastPlain = i
		}
	}

	if marked != 3 {
		t.Errorf("highlighted lines = %d, want 3", marked)
	}
	if plain != 24 {
		t.Errorf("plain lines = %d, want 24", plain)
	}
	if firstMarked <= lastPlain {
		t.Errorf("highlighted line at index %d before last plain line at %d", firstMarked, lastPlain)
	}
}

func TestPaintGeometry(t *testing.T) {
	g := mustGraph(t, 3, 4)
	rec := canvas.NewRecorder()
	if err := render.Paint(g, layout.Viewport{Width: 300, Height: 200}, rec); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	ops := rec.Ops()

	// First line leaves (layer 0, state 0) for (layer 1, state 0).
	first := ops[1]
	if first.Kind != canvas.OpLine {
		t.Fatalf("second command = %v, want line", first.Kind)
	}
	if first.From.X != 24 || first.From.Y != 16 {
		t.Errorf("first line starts at (%g, %g), want (24, 16)", first.From.X, first.From.Y)
	}
	if first.To.X != 108 || first.To.Y != 16 {
		t.Errorf("first line ends at (%g, %g), want (108, 16)", first.To.X, first.To.Y)
	}

	// First node sits at (24, 16) with the grid-derived radius.
	var firstNode *canvas.Op
	for i := range ops {
		if ops[i].Kind == canvas.OpNode {
			firstNode = &ops[i]
			break
		}
	}
	if firstNode == nil {
		t.Fatal("no node commands recorded")
	}
	if firstNode.Center.X != 24 || firstNode.Center.Y != 16 {
		t.Errorf("first node at (%g, %g), want (24, 16)", firstNode.Center.X, firstNode.Center.Y)
	}
	if firstNode.Radius != 21 {
		t.Errorf("node radius = %g, want 21", firstNode.Radius)
	}
}

func TestPaintErrors(t *testing.T) {
	g := mustGraph(t, 3, 4)
	rec := canvas.NewRecorder()

	tests := []struct {
		name     string
		graph    *trellis.Graph
		vp       layout.Viewport
		canvas   render.Canvas
		wantCode errors.Code
	}{
		{
			name:     "nil canvas",
			graph:    g,
			vp:       layout.Viewport{Width: 300, Height: 200},
			canvas:   nil,
			wantCode: errors.ErrCodeSurfaceUnavailable,
		},
		{
			name:     "zero viewport",
			graph:    g,
			vp:       layout.Viewport{},
			canvas:   rec,
			wantCode: errors.ErrCodeSurfaceUnavailable,
		},
		{
			name:     "nil graph",
			graph:    nil,
			vp:       layout.Viewport{Width: 300, Height: 200},
			canvas:   rec,
			wantCode: errors.ErrCodeEmptyGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec.Reset()
			err := render.Paint(tt.graph, tt.vp, tt.canvas)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.wantCode)
			}
			if got := len(rec.Ops()); got != 0 {
				t.Errorf("%d commands issued before failure, want 0", got)
			}
		})
	}
}

func TestPaintDoesNotMutateGraph(t *testing.T) {
	g := mustGraph(t, 3, 4)
	if err := g.MarkStatePath([]int{0, 1, 2, 0}); err != nil {
		t.Fatalf("MarkStatePath: %v", err)
	}
	if err := g.Annotate(1, 1, 0.5); err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	before := g.HighlightedPath()

	if err := render.Paint(g, layout.Viewport{Width: 300, Height: 200}, canvas.NewRecorder()); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	after := g.HighlightedPath()
	if len(before) != len(after) {
		t.Fatalf("highlighted path changed: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("highlighted path changed: %v -> %v", before, after)
		}
	}
	if v, ok := g.Annotation(1, 1); !ok || v != 0.5 {
		t.Errorf("annotation changed to (%g, %v)", v, ok)
	}
	if w := g.Weight(0, 0, 0); w != 1 {
		t.Errorf("weight changed to %g", w)
	}
}

func TestPainterRepaint(t *testing.T) {
	g := mustGraph(t, 3, 4)
	p := render.NewPainter()

	paint := func(vp layout.Viewport) []canvas.Op {
		rec := canvas.NewRecorder()
		if err := p.Paint(g, vp, rec); err != nil {
			t.Fatalf("Paint: %v", err)
		}
		return rec.Ops()
	}

	small := layout.Viewport{Width: 300, Height: 200}
	large := layout.Viewport{Width: 600, Height: 400}

	first := paint(small)
	paint(large)
	again := paint(small)

	// Switching viewports back and forth must reproduce identical
	// command sequences for identical inputs.
	if len(first) != len(again) {
		t.Fatalf("command counts differ: %d vs %d", len(first), len(again))
	}
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("command %d differs after viewport round-trip: %+v vs %+v",
				i, first[i], again[i])
		}
	}
}

func TestAnnotationRamp(t *testing.T) {
	g := mustGraph(t, 2, 2)
	if err := g.Annotate(0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Annotate(1, 1, 10); err != nil {
		t.Fatal(err)
	}

	theme := render.DefaultTheme()
	rec := canvas.NewRecorder()
	if err := render.Paint(g, layout.Viewport{Width: 200, Height: 200}, rec); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	var nodes []canvas.Op
	for _, op := range rec.Ops() {
		if op.Kind == canvas.OpNode {
			nodes = append(nodes, op)
		}
	}
	if len(nodes) != 4 {
		t.Fatalf("node commands = %d, want 4", len(nodes))
	}

	// Nodes arrive layer-major: (0,0), (0,1), (1,0), (1,1).
	if nodes[0].Shape.Fill != theme.NodeFillLow {
		t.Errorf("minimum-annotation node fill = %v, want ramp low %v", nodes[0].Shape.Fill, theme.NodeFillLow)
	}
	if nodes[3].Shape.Fill != theme.NodeFillHigh {
		t.Errorf("maximum-annotation node fill = %v, want ramp high %v", nodes[3].Shape.Fill, theme.NodeFillHigh)
	}
	// Unannotated nodes keep the base fill.
	if nodes[1].Shape.Fill != theme.Node.Fill {
		t.Errorf("unannotated node fill = %v, want base %v", nodes[1].Shape.Fill, theme.Node.Fill)
	}
}

func TestLabels(t *testing.T) {
	g := mustGraph(t, 2, 2)
	if err := g.Annotate(0, 1, 0.25); err != nil {
		t.Fatal(err)
	}

	rec := canvas.NewRecorder()
	if err := render.Paint(g, layout.Viewport{Width: 200, Height: 200}, rec, render.WithLabels(true)); err != nil {
		t.Fatalf("Paint: %v", err)
	}

	var texts []canvas.Op
	for _, op := range rec.Ops() {
		if op.Kind == canvas.OpText {
			texts = append(texts, op)
		}
	}
	want := []string{"s0", "0.25", "s0", "s1"}
	if len(texts) != len(want) {
		t.Fatalf("text commands = %d, want %d", len(texts), len(want))
	}
	for i, w := range want {
		if texts[i].Text != w {
			t.Errorf("label %d = %q, want %q", i, texts[i].Text, w)
		}
	}
}
