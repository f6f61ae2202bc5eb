package layout

import (
	"math"
	"testing"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/trellis"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool { return math.Abs(a-b) <= tolerance }

func mustGraph(t *testing.T, states, layers int) *trellis.Graph {
	t.Helper()
	g, err := trellis.Build(states, layers, trellis.UniformWeight(1))
	if err != nil {
		t.Fatalf("Build(%d, %d): %v", states, layers, err)
	}
	return g
}

func TestBuildErrors(t *testing.T) {
	g := mustGraph(t, 3, 4)

	tests := []struct {
		name     string
		graph    *trellis.Graph
		vp       Viewport
		opts     []Option
		wantCode errors.Code
	}{
		{
			name:     "nil graph",
			graph:    nil,
			vp:       Viewport{Width: 300, Height: 200},
			wantCode: errors.ErrCodeEmptyGraph,
		},
		{
			name:     "zero area viewport",
			graph:    g,
			vp:       Viewport{},
			wantCode: errors.ErrCodeSurfaceUnavailable,
		},
		{
			name:     "zero width",
			graph:    g,
			vp:       Viewport{Width: 0, Height: 200},
			wantCode: errors.ErrCodeSurfaceUnavailable,
		},
		{
			name:     "margin ratio too large",
			graph:    g,
			vp:       Viewport{Width: 300, Height: 200},
			opts:     []Option{WithMarginRatio(0.5)},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "negative margin ratio",
			graph:    g,
			vp:       Viewport{Width: 300, Height: 200},
			opts:     []Option{WithMarginRatio(-0.1)},
			wantCode: errors.ErrCodeInvalidInput,
		},
		{
			name:     "zero radius ratio",
			graph:    g,
			vp:       Viewport{Width: 300, Height: 200},
			opts:     []Option{WithRadiusRatio(0)},
			wantCode: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.graph, tt.vp, tt.opts...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestPositionFormula(t *testing.T) {
	// 3 states x 4 layers on 300x200 with the default 8% margins:
	// marginX = 24, marginY = 16, column step = 252/3 = 84, row step = 168/2 = 84.
	grid, err := Build(mustGraph(t, 3, 4), Viewport{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		layer, state int
		want         Point
	}{
		{0, 0, Point{X: 24, Y: 16}},
		{1, 0, Point{X: 108, Y: 16}},
		{3, 0, Point{X: 276, Y: 16}},
		{0, 1, Point{X: 24, Y: 100}},
		{0, 2, Point{X: 24, Y: 184}},
		{3, 2, Point{X: 276, Y: 184}},
	}

	for _, tt := range tests {
		got := grid.Position(tt.layer, tt.state)
		if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) {
			t.Errorf("Position(%d, %d) = (%g, %g), want (%g, %g)",
				tt.layer, tt.state, got.X, got.Y, tt.want.X, tt.want.Y)
		}
	}
}

func TestPositionDeterminism(t *testing.T) {
	g := mustGraph(t, 5, 7)
	vp := Viewport{Width: 1024, Height: 768}

	a, err := Build(g, vp)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(g, vp)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for layer := 0; layer < 7; layer++ {
		for state := 0; state < 5; state++ {
			pa, pb := a.Position(layer, state), b.Position(layer, state)
			if pa != pb {
				t.Fatalf("Position(%d, %d) differs between identical builds: %v vs %v",
					layer, state, pa, pb)
			}
		}
	}
}

func TestPositionBounds(t *testing.T) {
	cases := []struct {
		states, layers int
		vp             Viewport
	}{
		{1, 2, Viewport{Width: 100, Height: 100}},
		{3, 4, Viewport{Width: 300, Height: 200}},
		{10, 2, Viewport{Width: 640, Height: 480}},
		{2, 16, Viewport{Width: 1920, Height: 80}},
	}

	for _, tc := range cases {
		grid, err := Build(mustGraph(t, tc.states, tc.layers), tc.vp)
		if err != nil {
			t.Fatalf("Build(%d, %d): %v", tc.states, tc.layers, err)
		}

		minX, maxX := grid.MarginX(), tc.vp.Width-grid.MarginX()
		minY, maxY := grid.MarginY(), tc.vp.Height-grid.MarginY()

		for layer := 0; layer < tc.layers; layer++ {
			for state := 0; state < tc.states; state++ {
				p := grid.Position(layer, state)
				if p.X < minX-tolerance || p.X > maxX+tolerance {
					t.Errorf("%dx%d: Position(%d, %d).X = %g outside [%g, %g]",
						tc.states, tc.layers, layer, state, p.X, minX, maxX)
				}
				if p.Y < minY-tolerance || p.Y > maxY+tolerance {
					t.Errorf("%dx%d: Position(%d, %d).Y = %g outside [%g, %g]",
						tc.states, tc.layers, layer, state, p.Y, minY, maxY)
				}
			}
		}
	}
}

func TestSingleStateCentersRow(t *testing.T) {
	grid, err := Build(mustGraph(t, 1, 3), Viewport{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for layer := 0; layer < 3; layer++ {
		p := grid.Position(layer, 0)
		if !almostEqual(p.Y, 100) {
			t.Errorf("Position(%d, 0).Y = %g, want 100 (centered)", layer, p.Y)
		}
	}
}

func TestSingleLayerCentersColumn(t *testing.T) {
	// Unreachable through trellis.Build (layers >= 2), but the formula
	// defines the fallback and BuildDims accepts it.
	grid, err := BuildDims(3, 1, Viewport{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("BuildDims: %v", err)
	}

	for state := 0; state < 3; state++ {
		p := grid.Position(0, state)
		if !almostEqual(p.X, 150) {
			t.Errorf("Position(0, %d).X = %g, want 150 (centered)", state, p.X)
		}
	}
}

func TestMarginRatioOption(t *testing.T) {
	grid, err := Build(mustGraph(t, 3, 4), Viewport{Width: 100, Height: 100}, WithMarginRatio(0.1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !almostEqual(grid.MarginX(), 10) || !almostEqual(grid.MarginY(), 10) {
		t.Errorf("margins = (%g, %g), want (10, 10)", grid.MarginX(), grid.MarginY())
	}
	p := grid.Position(0, 0)
	if !almostEqual(p.X, 10) || !almostEqual(p.Y, 10) {
		t.Errorf("Position(0, 0) = %v, want (10, 10)", p)
	}
}

func TestRadius(t *testing.T) {
	// Column step 84, row step 84: radius = 0.25 * 84 = 21.
	grid, err := Build(mustGraph(t, 3, 4), Viewport{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !almostEqual(grid.Radius(), 21) {
		t.Errorf("Radius() = %g, want 21", grid.Radius())
	}

	// Squashed viewport: the row spacing dominates.
	grid, err = Build(mustGraph(t, 3, 4), Viewport{Width: 300, Height: 50})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wantRow := (50 - 2*0.08*50) / 2
	if !almostEqual(grid.Radius(), 0.25*wantRow) {
		t.Errorf("Radius() = %g, want %g", grid.Radius(), 0.25*wantRow)
	}
}

func TestNodeAt(t *testing.T) {
	grid, err := Build(mustGraph(t, 3, 4), Viewport{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Every node position inverts to its own identity.
	for layer := 0; layer < 4; layer++ {
		for state := 0; state < 3; state++ {
			p := grid.Position(layer, state)
			l, s, ok := grid.NodeAt(p)
			if !ok || l != layer || s != state {
				t.Errorf("NodeAt(Position(%d, %d)) = (%d, %d, %v)", layer, state, l, s, ok)
			}
		}
	}

	// A slight offset within the radius still hits.
	p := grid.Position(1, 1)
	if _, _, ok := grid.NodeAt(Point{X: p.X + grid.Radius()/2, Y: p.Y}); !ok {
		t.Error("NodeAt missed a point inside the marker radius")
	}

	// Points between nodes hit nothing.
	if _, _, ok := grid.NodeAt(Point{X: p.X + grid.ColumnSpacing()/2, Y: p.Y}); ok {
		t.Error("NodeAt hit a point midway between columns")
	}
	if _, _, ok := grid.NodeAt(Point{X: -50, Y: -50}); ok {
		t.Error("NodeAt hit a point outside the viewport")
	}
}

func TestViewportValid(t *testing.T) {
	if (Viewport{}).Valid() {
		t.Error("zero viewport reported valid")
	}
	if !(Viewport{Width: 1, Height: 1}).Valid() {
		t.Error("1x1 viewport reported invalid")
	}
	if (Viewport{Width: -1, Height: 5}).Valid() {
		t.Error("negative width reported valid")
	}
}
