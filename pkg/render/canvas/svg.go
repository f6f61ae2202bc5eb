package canvas

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/render"
)

// SVG streams drawing commands to w as SVG elements. The document header
// is written on construction and [SVG.Finish] closes it; write errors are
// sticky and surface from Finish.
type SVG struct {
	w      io.Writer
	err    error
	closed bool
}

// NewSVG opens an SVG document sized to the viewport.
func NewSVG(w io.Writer, vp layout.Viewport) *SVG {
	s := &SVG{w: w}
	s.printf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vp.Width, vp.Height, vp.Width, vp.Height)
	return s
}

// Clear implements render.Canvas by painting a full-viewport rectangle.
func (s *SVG) Clear(vp layout.Viewport, style render.Fill) {
	s.printf(`  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		vp.Width, vp.Height, svgColor(style.Color))
}

// Line implements render.Canvas.
func (s *SVG) Line(from, to layout.Point, style render.Stroke) {
	s.printf(`  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
		from.X, from.Y, to.X, to.Y, svgColor(style.Color), style.Width)
}

// Node implements render.Canvas.
func (s *SVG) Node(center layout.Point, radius float64, style render.Shape) {
	if style.Stroke == nil {
		s.printf(`  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			center.X, center.Y, radius, svgColor(style.Fill))
		return
	}
	s.printf(`  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		center.X, center.Y, radius, svgColor(style.Fill), svgColor(style.Stroke), style.StrokeWidth)
}

// Text implements render.Canvas.
func (s *SVG) Text(at layout.Point, text string, style render.Label) {
	s.printf(`  <text x="%.2f" y="%.2f" font-size="%.1f" fill="%s" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif">%s</text>`+"\n",
		at.X, at.Y, style.Size, svgColor(style.Color), escapeText(text))
}

// Finish closes the document and returns the first write error, if any.
func (s *SVG) Finish() error {
	if !s.closed {
		s.printf("</svg>\n")
		s.closed = true
	}
	return s.err
}

func (s *SVG) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string { return textEscaper.Replace(s) }

// svgColor formats a color as #rrggbb. Alpha is dropped; theme colors are
// opaque.
func svgColor(c color.Color) string {
	if c == nil {
		return "none"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
