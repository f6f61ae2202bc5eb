// Package canvas provides drawing-surface implementations for the
// renderer: an SVG writer, a raster image canvas backed by fogleman/gg,
// and a command recorder for tests and debugging.
package canvas

import (
	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/render"
)

// OpKind identifies one primitive drawing command.
type OpKind int

const (
	OpClear OpKind = iota
	OpLine
	OpNode
	OpText
)

// String returns the command name.
func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpLine:
		return "line"
	case OpNode:
		return "node"
	case OpText:
		return "text"
	}
	return "unknown"
}

// Op is one recorded drawing command with its arguments preserved. Only the
// fields matching Kind are meaningful.
type Op struct {
	Kind OpKind

	Viewport layout.Viewport // OpClear
	From, To layout.Point    // OpLine
	Center   layout.Point    // OpNode
	Radius   float64         // OpNode
	At       layout.Point    // OpText
	Text     string          // OpText

	Fill   render.Fill   // OpClear
	Stroke render.Stroke // OpLine
	Shape  render.Shape  // OpNode
	Label  render.Label  // OpText
}

// Recorder implements render.Canvas by appending every command to a list.
// Tests use it to assert counts, arguments, and emission order.
type Recorder struct {
	ops []Op
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Clear implements render.Canvas.
func (r *Recorder) Clear(vp layout.Viewport, style render.Fill) {
	r.ops = append(r.ops, Op{Kind: OpClear, Viewport: vp, Fill: style})
}

// Line implements render.Canvas.
func (r *Recorder) Line(from, to layout.Point, style render.Stroke) {
	r.ops = append(r.ops, Op{Kind: OpLine, From: from, To: to, Stroke: style})
}

// Node implements render.Canvas.
func (r *Recorder) Node(center layout.Point, radius float64, style render.Shape) {
	r.ops = append(r.ops, Op{Kind: OpNode, Center: center, Radius: radius, Shape: style})
}

// Text implements render.Canvas.
func (r *Recorder) Text(at layout.Point, s string, style render.Label) {
	r.ops = append(r.ops, Op{Kind: OpText, At: at, Text: s, Label: style})
}

// Ops returns the recorded commands in emission order.
func (r *Recorder) Ops() []Op { return r.ops }

// Count returns how many commands of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards all recorded commands.
func (r *Recorder) Reset() { r.ops = nil }
