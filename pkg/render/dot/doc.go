// Package dot exports trellis graphs as Graphviz DOT and renders them to SVG.
//
// # Overview
//
// This package produces a node-link view of a trellis as an alternative to
// the grid painter in [github.com/lattix/trellis/pkg/render]. Graphviz lays
// the graph out itself, so the output ignores viewport geometry and is most
// useful for inspecting weights and the marked path.
//
// # Usage
//
// Convert a graph to DOT, then render in-process:
//
//	src := dot.Marshal(g)
//	svg, err := dot.RenderSVG(ctx, g)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with one circle
// node per (layer, state) named l<layer>s<state>. Nodes of the same layer
// share a rank so layers form columns. Every edge carries its weight as a
// label; edges on the marked path are drawn in crimson with a heavier pen.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz and
// needs no external binaries.
package dot
