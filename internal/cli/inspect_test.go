package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lattix/trellis/pkg/trellis"
)

func TestLoadModelScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.toml")
	sceneTOML := "states = 3\nlayers = 4\ndefault-weight = 0.5\npath = [0, 2, 1, 1]\n"
	if err := os.WriteFile(path, []byte(sceneTOML), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := loadModel(path)
	if err != nil {
		t.Fatalf("loadModel() error: %v", err)
	}
	if g.States() != 3 || g.Layers() != 4 {
		t.Errorf("model = %dx%d, want 3x4", g.States(), g.Layers())
	}
	if len(g.HighlightedPath()) != 3 {
		t.Errorf("highlighted path has %d edges, want 3", len(g.HighlightedPath()))
	}
}

func TestLoadModelDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	doc := `{"states": 2, "layers": 3, "edges": [{"layer": 0, "from": 0, "to": 1, "weight": 2.5}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := loadModel(path)
	if err != nil {
		t.Fatalf("loadModel() error: %v", err)
	}
	if g.States() != 2 || g.Layers() != 3 {
		t.Errorf("model = %dx%d, want 2x3", g.States(), g.Layers())
	}
	if w := g.Weight(0, 0, 1); w != 2.5 {
		t.Errorf("Weight(0,0,1) = %v, want 2.5", w)
	}
}

func TestWeightSummary(t *testing.T) {
	empty, err := trellis.Build(2, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := weightSummary(empty); got != "all zero" {
		t.Errorf("weightSummary(zero graph) = %q, want %q", got, "all zero")
	}

	g, err := trellis.Build(2, 3, func(from, to, layer int) float64 {
		if layer == 0 && from == 0 && to == 1 {
			return 2.5
		}
		return 0
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "1 non-zero, range [0, 2.5]"
	if got := weightSummary(g); got != want {
		t.Errorf("weightSummary() = %q, want %q", got, want)
	}
}

func TestPathSummary(t *testing.T) {
	g, err := trellis.Build(3, 4, trellis.UniformWeight(1))
	if err != nil {
		t.Fatal(err)
	}

	if got := pathSummary(g); got != "none" {
		t.Errorf("pathSummary(unmarked) = %q, want %q", got, "none")
	}

	if err := g.MarkStatePath([]int{0, 2, 1, 1}); err != nil {
		t.Fatal(err)
	}
	want := "s0 → s2 → s1 → s1"
	if got := pathSummary(g); got != want {
		t.Errorf("pathSummary() = %q, want %q", got, want)
	}
}

func TestPathSummaryPartialPath(t *testing.T) {
	g, err := trellis.Build(3, 4, trellis.UniformWeight(1))
	if err != nil {
		t.Fatal(err)
	}

	if err := g.MarkPath([]trellis.EdgeRef{{Layer: 2, From: 1, To: 0}}); err != nil {
		t.Fatal(err)
	}
	want := "s1 → s0 (from layer 2)"
	if got := pathSummary(g); got != want {
		t.Errorf("pathSummary() = %q, want %q", got, want)
	}
}

func TestAnnotationSummary(t *testing.T) {
	g, err := trellis.Build(2, 3, nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := annotationSummary(g); got != "none" {
		t.Errorf("annotationSummary(bare graph) = %q, want %q", got, "none")
	}

	if err := g.Annotate(0, 1, 0.25); err != nil {
		t.Fatal(err)
	}
	if err := g.Annotate(2, 0, 0.75); err != nil {
		t.Fatal(err)
	}
	want := "2 nodes, range [0.25, 0.75]"
	if got := annotationSummary(g); got != want {
		t.Errorf("annotationSummary() = %q, want %q", got, want)
	}
}
