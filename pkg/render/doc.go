// Package render turns a trellis graph plus a viewport into an ordered
// sequence of primitive drawing commands against a [Canvas].
//
// # Draw Order
//
// Paint always emits in the same order, so output is deterministic and the
// visual layering is predictable:
//
//  1. one background clear of the viewport region
//  2. every non-highlighted edge, as a straight line
//  3. every highlighted edge, drawn after so the marked path stays on top
//  4. every node, as a filled circle sized from the grid spacing
//  5. optionally one text label per node (see [WithLabels])
//
// Within each phase the iteration is layer-major: layer, then from-state,
// then to-state for edges; layer then state for nodes.
//
// # Canvases
//
// A [Canvas] is the drawing-surface capability supplied by the host: four
// synchronous primitives, no retained scene graph. Paint re-emits the whole
// sequence on every call. The [canvas] subpackage ships an SVG writer, a
// raster (PNG) canvas, and a command recorder for tests; anything that can
// draw lines, circles, and text can implement the interface.
//
// # Styling
//
// A [Theme] fixes the colors and stroke widths for the five phases. Node
// fills are modulated by the graph's annotations when present: values are
// mapped linearly between the theme's low and high fill colors across the
// observed annotation range.
//
// # Reuse
//
// The package-level [Paint] computes a fresh layout per call. A [Painter]
// keeps the layout grid memoized for the lifetime of a model, which is the
// sensible default for shells that repaint the same graph on every frame.
// Painters are not safe for concurrent use.
//
// [canvas]: github.com/lattix/trellis/pkg/render/canvas
package render
