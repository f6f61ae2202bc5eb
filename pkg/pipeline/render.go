package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/lattix/trellis/pkg/graph"
	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/render"
	"github.com/lattix/trellis/pkg/render/canvas"
	"github.com/lattix/trellis/pkg/render/dot"
	"github.com/lattix/trellis/pkg/trellis"
)

// RenderFormats renders g into every requested format.
//
// SVG and PNG share one painter so the layout grid is placed once per call.
// The engine option selects who draws the SVG: the internal vector canvas
// (default) or Graphviz fed with the DOT form.
func RenderFormats(ctx context.Context, g *trellis.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	painter := render.NewPainter(
		render.WithLabels(opts.Labels),
		render.WithLayoutOptions(opts.layoutOptions()...),
	)
	vp := opts.Viewport()

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = renderSVG(ctx, painter, g, vp, opts)
		case FormatPNG:
			data, err = renderPNG(painter, g, vp)
		case FormatDOT:
			data = dot.Marshal(g)
		case FormatJSON:
			data, err = graph.Marshal(g)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderSVG produces the vector artifact with the configured engine.
func renderSVG(ctx context.Context, painter *render.Painter, g *trellis.Graph, vp layout.Viewport, opts Options) ([]byte, error) {
	if opts.Engine == EngineGraphviz {
		return dot.RenderSVG(ctx, g)
	}

	var buf bytes.Buffer
	c := canvas.NewSVG(&buf, vp)
	if err := painter.Paint(g, vp, c); err != nil {
		return nil, err
	}
	if err := c.Finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPNG rasterizes onto the image canvas and encodes it.
func renderPNG(painter *render.Painter, g *trellis.Graph, vp layout.Viewport) ([]byte, error) {
	img, err := canvas.NewImage(int(vp.Width), int(vp.Height))
	if err != nil {
		return nil, err
	}
	if err := painter.Paint(g, vp, img); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := img.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
