package canvas

import (
	"image"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/render"
)

var (
	regularOnce sync.Once
	regularFont *sfnt.Font
	regularErr  error
)

// regular parses the embedded Go Regular font once.
func regular() (*sfnt.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// Image is a raster canvas. Drawing happens into an in-memory RGBA image
// sized in pixels; use [Image.EncodePNG] to write the result.
type Image struct {
	dc    *gg.Context
	faces map[float64]font.Face
	err   error
}

// NewImage creates a raster canvas of the given pixel size. Text rendering
// uses the embedded Go Regular font.
func NewImage(width, height int) (*Image, error) {
	if _, err := regular(); err != nil {
		return nil, err
	}
	return &Image{
		dc:    gg.NewContext(width, height),
		faces: make(map[float64]font.Face),
	}, nil
}

// Clear implements render.Canvas.
func (m *Image) Clear(_ layout.Viewport, style render.Fill) {
	if style.Color == nil {
		return
	}
	m.dc.SetColor(style.Color)
	m.dc.Clear()
}

// Line implements render.Canvas.
func (m *Image) Line(from, to layout.Point, style render.Stroke) {
	if style.Color == nil {
		return
	}
	m.dc.SetColor(style.Color)
	m.dc.SetLineWidth(style.Width)
	m.dc.DrawLine(from.X, from.Y, to.X, to.Y)
	m.dc.Stroke()
}

// Node implements render.Canvas.
func (m *Image) Node(center layout.Point, radius float64, style render.Shape) {
	m.dc.DrawCircle(center.X, center.Y, radius)
	if style.Fill != nil {
		m.dc.SetColor(style.Fill)
		if style.Stroke == nil {
			m.dc.Fill()
			return
		}
		m.dc.FillPreserve()
	}
	if style.Stroke != nil {
		m.dc.SetColor(style.Stroke)
		m.dc.SetLineWidth(style.StrokeWidth)
		m.dc.Stroke()
	}
}

// Text implements render.Canvas.
func (m *Image) Text(at layout.Point, s string, style render.Label) {
	if style.Color == nil {
		return
	}
	face := m.face(style.Size)
	if face == nil {
		return
	}
	m.dc.SetFontFace(face)
	m.dc.SetColor(style.Color)
	m.dc.DrawStringAnchored(s, at.X, at.Y, 0.5, 0.5)
}

// face returns a cached font face for the given size. A face that cannot
// be built marks the canvas as failed and text is skipped.
func (m *Image) face(size float64) font.Face {
	if size <= 0 {
		size = 12
	}
	if f, ok := m.faces[size]; ok {
		return f
	}
	fnt, err := regular()
	if err != nil {
		m.err = err
		return nil
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		m.err = err
		return nil
	}
	m.faces[size] = f
	return f
}

// Image returns the backing image.
func (m *Image) Image() image.Image { return m.dc.Image() }

// EncodePNG writes the canvas as PNG. It reports any text-rendering
// failure encountered while drawing.
func (m *Image) EncodePNG(w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	return m.dc.EncodePNG(w)
}
