package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/trellis"
)

// Marshal converts a trellis to Graphviz DOT. The resulting source can be
// rendered with [RenderSVG] or external Graphviz tools. A nil graph yields
// an empty digraph.
func Marshal(g *trellis.Graph) []byte {
	var buf bytes.Buffer
	buf.WriteString("digraph trellis {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=lightblue, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")

	if g == nil {
		buf.WriteString("}\n")
		return buf.Bytes()
	}

	buf.WriteString("\n")
	for layer := 0; layer < g.Layers(); layer++ {
		buf.WriteString("  { rank=same;")
		for state := 0; state < g.States(); state++ {
			fmt.Fprintf(&buf, " %s;", nodeID(layer, state))
		}
		buf.WriteString(" }\n")
	}

	buf.WriteString("\n")
	for layer := 0; layer < g.Layers(); layer++ {
		for state := 0; state < g.States(); state++ {
			fmt.Fprintf(&buf, "  %s [label=%q];\n", nodeID(layer, state), nodeLabel(g, layer, state))
		}
	}

	buf.WriteString("\n")
	for layer := 0; layer < g.Layers()-1; layer++ {
		for from := 0; from < g.States(); from++ {
			for to := 0; to < g.States(); to++ {
				attrs := edgeAttrs(g, layer, from, to)
				fmt.Fprintf(&buf, "  %s -> %s [%s];\n",
					nodeID(layer, from), nodeID(layer+1, to), strings.Join(attrs, ", "))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.Bytes()
}

// nodeID names the DOT node for (layer, state). The l<layer>s<state> form
// keeps IDs valid DOT identifiers without quoting.
func nodeID(layer, state int) string {
	return fmt.Sprintf("l%ds%d", layer, state)
}

func nodeLabel(g *trellis.Graph, layer, state int) string {
	if v, ok := g.Annotation(layer, state); ok {
		return fmt.Sprintf("%.4g", v)
	}
	return fmt.Sprintf("s%d", state)
}

func edgeAttrs(g *trellis.Graph, layer, from, to int) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmt.Sprintf("%.4g", g.Weight(layer, from, to)))}
	if g.Highlighted(layer, from, to) {
		attrs = append(attrs, "color=crimson", "penwidth=2.5")
	}
	return attrs
}

// RenderSVG renders the graph's DOT form to SVG using Graphviz.
// Returns an EMPTY_GRAPH error for a nil graph and INTERNAL_ERROR when
// Graphviz itself fails.
func RenderSVG(ctx context.Context, g *trellis.Graph) ([]byte, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeEmptyGraph, "no graph to render")
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes(Marshal(g))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg header so the viewBox starts at
// the origin and width/height match it, which keeps downstream scaling simple.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
