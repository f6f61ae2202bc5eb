// Package pkg provides the core libraries for trellis diagram rendering.
//
// # Overview
//
// Trellis draws layered state-transition diagrams: a fixed set of states
// repeated across time steps, with dense weighted transitions between
// consecutive layers. The pkg directory is organized into four main areas:
//
//  1. [trellis] - Domain model (graph construction, paths, annotations)
//  2. [layout] / [render] - Geometry and drawing-command emission
//  3. [pipeline] - Orchestration (build → layout → render) with caching
//  4. [app] - Handle registry shared by embedders and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	Scene TOML / JSON document
//	         ↓
//	    [trellis] package (build the graph, mark paths, annotate)
//	         ↓
//	    [layout] package (deterministic grid placement)
//	         ↓
//	    [render] package (ordered draw commands onto a canvas)
//	         ↓
//	    SVG/PNG/DOT/JSON output
//
// # Quick Start
//
// Build a trellis and render it to SVG:
//
//	import (
//	    "os"
//	    "github.com/lattix/trellis/pkg/layout"
//	    "github.com/lattix/trellis/pkg/render"
//	    "github.com/lattix/trellis/pkg/render/canvas"
//	    "github.com/lattix/trellis/pkg/trellis"
//	)
//
//	// 1. Build the model
//	g, _ := trellis.Build(3, 5, trellis.UniformWeight(1.0))
//	_ = g.MarkStatePath([]int{0, 1, 1, 2, 0})
//
//	// 2. Pick a viewport and a surface
//	vp := layout.Viewport{Width: 800, Height: 600}
//	svg := canvas.NewSVG(os.Stdout, vp)
//
//	// 3. Emit the draw commands
//	_ = render.Paint(g, vp, svg, render.WithLabels(true))
//	_ = svg.Finish()
//
// # Main Packages
//
// [trellis] - The graph model: S states × T layers with dense transitions,
// weight lookup, highlighted paths, and node annotations. All operations
// validate their indices and fail with coded errors.
//
// [layout] - Grid placement: states map to rows, layers to columns, with
// proportional margins and a node radius derived from the cell spacing.
// Same dimensions and viewport always produce the same geometry.
//
// [render] - Converts a graph plus a viewport into an ordered sequence of
// drawing commands against a [render.Canvas]: background, edges, highlighted
// edges, nodes, labels. Canvas implementations live in [render/canvas]
// (SVG, raster PNG, a command recorder for tests) and [render/dot]
// (Graphviz export).
//
// [graph] - The JSON document form of a trellis. Documents round-trip: only
// non-default edges are stored, and decoding re-validates every invariant.
//
// [scene] - TOML scene files describing a trellis to build and render:
// dimensions, weights, path, annotations, and render parameters.
//
// [pipeline] - The build → layout → render pipeline shared by the CLI and
// the HTTP API, with content-addressed artifact caching.
//
// [cache] - Artifact cache backends: file (XDG directory, sharded), Redis,
// and a null cache. All implement [cache.Cache].
//
// [app] - The embedder surface: a registry that owns graphs behind opaque
// handles and serializes all access per handle.
//
// [errors] - Coded errors shared by every package; codes map onto HTTP
// statuses in the API.
//
// [observability] - Hook interfaces for pipeline, cache, and HTTP metrics,
// with a Prometheus implementation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/trellis    # Specific package
//	go test -run Example     # Examples only
//
// [trellis]: https://pkg.go.dev/github.com/lattix/trellis/pkg/trellis
// [layout]: https://pkg.go.dev/github.com/lattix/trellis/pkg/layout
// [render]: https://pkg.go.dev/github.com/lattix/trellis/pkg/render
// [render/canvas]: https://pkg.go.dev/github.com/lattix/trellis/pkg/render/canvas
// [render/dot]: https://pkg.go.dev/github.com/lattix/trellis/pkg/render/dot
// [graph]: https://pkg.go.dev/github.com/lattix/trellis/pkg/graph
// [scene]: https://pkg.go.dev/github.com/lattix/trellis/pkg/scene
// [pipeline]: https://pkg.go.dev/github.com/lattix/trellis/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/lattix/trellis/pkg/cache
// [app]: https://pkg.go.dev/github.com/lattix/trellis/pkg/app
// [errors]: https://pkg.go.dev/github.com/lattix/trellis/pkg/errors
// [observability]: https://pkg.go.dev/github.com/lattix/trellis/pkg/observability
package pkg
