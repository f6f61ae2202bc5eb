package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lattix/trellis/pkg/cache"
	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/scene"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		States:        3,
		Layers:        4,
		DefaultWeight: 1,
		Path:          []int{0, 1, 2, 2},
		Transitions: []scene.Transition{
			{Layer: 0, From: 0, To: 1, Weight: 0.25},
		},
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{
		Scene:   testScene(),
		Width:   300,
		Height:  200,
		Formats: []string{"svg", "png", "dot", "json"},
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Graph == nil {
		t.Fatal("Result.Graph is nil")
	}
	if result.Grid == nil {
		t.Fatal("Result.Grid is nil")
	}
	if result.Stats.NodeCount != 12 {
		t.Errorf("NodeCount = %d, want 12", result.Stats.NodeCount)
	}
	if result.Stats.EdgeCount != 27 {
		t.Errorf("EdgeCount = %d, want 27", result.Stats.EdgeCount)
	}
	if len(result.GraphHash) != 64 {
		t.Errorf("GraphHash = %q, want a sha256 hex digest", result.GraphHash)
	}

	svg := result.Artifacts["svg"]
	if !strings.Contains(string(svg), `viewBox="0 0 300.0 200.0"`) {
		t.Errorf("svg artifact missing viewBox: %.80s", svg)
	}
	if !bytes.HasPrefix(result.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact missing PNG signature")
	}
	if !strings.Contains(string(result.Artifacts["dot"]), "digraph trellis") {
		t.Error("dot artifact missing digraph header")
	}
	if !strings.Contains(string(result.Artifacts["json"]), `"states": 3`) {
		t.Errorf("json artifact missing dimensions: %.120s", result.Artifacts["json"])
	}

	// NullCache never hits
	if result.CacheInfo.BuildHit || result.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want no hits with the null cache", result.CacheInfo)
	}
}

func TestRunnerExecuteCachesSecondRun(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{
		States:        3,
		Layers:        4,
		DefaultWeight: 1,
		Formats:       []string{"svg", "json"},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if !second.CacheInfo.BuildHit {
		t.Error("second run should hit the graph cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs from the rendered one")
	}

	// Refresh bypasses cache reads
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute failed: %v", err)
	}
	if third.CacheInfo.BuildHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run CacheInfo = %+v, want all misses", third.CacheInfo)
	}
}

func TestRunnerExecuteDifferentOptionsMissArtifactCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{States: 2, Layers: 3, Formats: []string{"svg"}}

	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}

	// Same graph, different viewport: graph cache hits, artifact cache misses
	opts.Width = 1024
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if !result.CacheInfo.BuildHit {
		t.Error("graph cache should hit for the same dimensions")
	}
	if result.CacheInfo.RenderHit {
		t.Error("artifact cache should miss for a different viewport")
	}
}

func TestRunnerBuildInvalidDimensions(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Build(context.Background(), Options{States: 3, Layers: 1})
	if !errors.Is(err, errors.ErrCodeInvalidDimension) {
		t.Errorf("expected INVALID_DIMENSION, got %v", err)
	}
}

func TestRunnerBuildMissingSceneFile(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Build(context.Background(), Options{ScenePath: "does-not-exist.toml"})
	if !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("expected INVALID_SCENE, got %v", err)
	}
}

func TestRunnerBuildBrokenScenePath(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	s := testScene()
	s.Path = []int{0, 1} // one state per layer is required

	_, err := runner.Build(context.Background(), Options{Scene: s})
	if !errors.Is(err, errors.ErrCodeBrokenPath) {
		t.Errorf("expected BROKEN_PATH, got %v", err)
	}
}

func TestRunnerRenderNilGraph(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Render(context.Background(), nil, Options{Formats: []string{"svg"}})
	if !errors.Is(err, errors.ErrCodeEmptyGraph) {
		t.Errorf("expected EMPTY_GRAPH, got %v", err)
	}
}

func TestRenderFormatsLabels(t *testing.T) {
	g, err := testScene().Graph()
	if err != nil {
		t.Fatalf("Graph failed: %v", err)
	}

	plain, err := RenderFormats(context.Background(), g, Options{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("RenderFormats failed: %v", err)
	}
	if strings.Contains(string(plain["svg"]), "<text") {
		t.Error("labels rendered without being requested")
	}

	labeled, err := RenderFormats(context.Background(), g, Options{Width: 300, Height: 200, Labels: true})
	if err != nil {
		t.Fatalf("RenderFormats with labels failed: %v", err)
	}
	if !strings.Contains(string(labeled["svg"]), ">s0</text>") {
		t.Error("labels requested but no node text emitted")
	}
}

func TestRunnerClose(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	if err := runner.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
