package render

import "image/color"

// Stroke describes how a line is drawn.
type Stroke struct {
	Color color.Color
	Width float64
}

// Fill describes a solid region color.
type Fill struct {
	Color color.Color
}

// Shape describes a filled node marker with an optional outline.
// A nil Stroke color means no outline.
type Shape struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// Label describes node label text.
type Label struct {
	Color color.Color
	Size  float64
}

// Palette colors shared by the default theme.
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorBlack     = color.RGBA{0, 0, 0, 255}
	colorLightBlue = color.RGBA{173, 216, 230, 255} // #add8e6
	colorAliceBlue = color.RGBA{240, 248, 255, 255} // #f0f8ff
	colorSteelBlue = color.RGBA{70, 130, 180, 255}  // #4682b4
	colorCrimson   = color.RGBA{220, 20, 60, 255}   // #dc143c
)

// Theme fixes the visual styles for the five paint phases.
type Theme struct {
	Background      Fill
	Edge            Stroke
	HighlightedEdge Stroke
	Node            Shape
	Label           Label

	// NodeFillLow and NodeFillHigh are the endpoints of the annotation
	// ramp: an annotated node's fill is interpolated between them by where
	// its value sits in the graph's annotation range. The ramp only
	// applies when the range spans more than one value; otherwise every
	// node keeps Node.Fill.
	NodeFillLow  color.Color
	NodeFillHigh color.Color
}

// DefaultTheme matches the classic trellis viewer look: black edges and
// outlines, light blue nodes, white background, with the marked path in
// crimson and a heavier stroke.
func DefaultTheme() Theme {
	return Theme{
		Background:      Fill{Color: colorWhite},
		Edge:            Stroke{Color: colorBlack, Width: 1},
		HighlightedEdge: Stroke{Color: colorCrimson, Width: 2.5},
		Node: Shape{
			Fill:        colorLightBlue,
			Stroke:      colorBlack,
			StrokeWidth: 1,
		},
		Label:        Label{Color: colorBlack, Size: 12},
		NodeFillLow:  colorAliceBlue,
		NodeFillHigh: colorSteelBlue,
	}
}

// lerpColor interpolates between two colors in 8-bit RGBA space.
// t is clamped to [0, 1].
func lerpColor(a, b color.Color, t float64) color.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	ar, ag, ab, aa := rgba8(a)
	br, bg, bb, ba := rgba8(b)
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + t*(float64(y)-float64(x)) + 0.5)
	}
	return color.RGBA{mix(ar, br), mix(ag, bg), mix(ab, bb), mix(aa, ba)}
}

// rgba8 reduces a color to 8-bit non-premultiplied-ish channels, which is
// enough for interpolating theme colors.
func rgba8(c color.Color) (r, g, b, a uint8) {
	if c == nil {
		return 0, 0, 0, 0
	}
	r16, g16, b16, a16 := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), uint8(a16 >> 8)
}
