package graph

import (
	"slices"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/trellis"
)

// Document is the canonical serialization format for trellis graphs.
// Used for JSON files, API responses, and caching.
//
// Only non-default data appears in the edge and annotation lists, so a
// decoded document reproduces the source graph exactly while staying small:
// every edge absent from Edges has weight zero and is not highlighted.
type Document struct {
	States      int          `json:"states"`
	Layers      int          `json:"layers"`
	Edges       []Edge       `json:"edges,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Edge records one transition between consecutive layers.
type Edge struct {
	Layer       int     `json:"layer"`
	From        int     `json:"from"`
	To          int     `json:"to"`
	Weight      float64 `json:"weight,omitempty"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

// Annotation records a node-level value.
type Annotation struct {
	Layer int     `json:"layer"`
	State int     `json:"state"`
	Value float64 `json:"value"`
}

// edgeKey identifies a transition for duplicate detection and weight lookup.
type edgeKey struct {
	layer, from, to int
}

// FromGraph converts a trellis to its serialization format. Edges appear in
// layer-major order and annotations in (layer, state) order, so output is
// deterministic for a given graph.
func FromGraph(g *trellis.Graph) Document {
	doc := Document{States: g.States(), Layers: g.Layers()}

	for layer := 0; layer < g.Layers()-1; layer++ {
		for from := 0; from < g.States(); from++ {
			for to := 0; to < g.States(); to++ {
				w := g.Weight(layer, from, to)
				hl := g.Highlighted(layer, from, to)
				if w == 0 && !hl {
					continue
				}
				doc.Edges = append(doc.Edges, Edge{
					Layer: layer, From: from, To: to,
					Weight: w, Highlighted: hl,
				})
			}
		}
	}

	for layer := 0; layer < g.Layers(); layer++ {
		for state := 0; state < g.States(); state++ {
			if v, ok := g.Annotation(layer, state); ok {
				doc.Annotations = append(doc.Annotations, Annotation{
					Layer: layer, State: state, Value: v,
				})
			}
		}
	}

	return doc
}

// ToGraph rebuilds a trellis from its serialization format.
//
// The document is validated as the graph is rebuilt: dimensions must form a
// valid trellis, every edge and annotation must be in range, duplicate edges
// are rejected, and the highlighted edges must chain into a contiguous path.
// Errors carry the same codes the model operations use, so a document with a
// gap in its highlight set fails with BROKEN_PATH just as MarkPath would.
func (d Document) ToGraph() (*trellis.Graph, error) {
	if err := errors.ValidateDimensions(d.States, d.Layers); err != nil {
		return nil, err
	}

	weights := make(map[edgeKey]float64, len(d.Edges))
	var marked []trellis.EdgeRef
	for _, e := range d.Edges {
		if err := errors.ValidateEdge(e.Layer, e.From, e.To, d.Layers, d.States); err != nil {
			return nil, err
		}
		k := edgeKey{e.Layer, e.From, e.To}
		if _, dup := weights[k]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"duplicate edge %d:%d->%d", e.Layer, e.From, e.To)
		}
		weights[k] = e.Weight
		if e.Highlighted {
			marked = append(marked, trellis.EdgeRef{Layer: e.Layer, From: e.From, To: e.To})
		}
	}

	g, err := trellis.Build(d.States, d.Layers, func(from, to, layer int) float64 {
		return weights[edgeKey{layer, from, to}]
	})
	if err != nil {
		return nil, err
	}

	if len(marked) > 0 {
		slices.SortFunc(marked, func(a, b trellis.EdgeRef) int { return a.Layer - b.Layer })
		if err := g.MarkPath(marked); err != nil {
			return nil, err
		}
	}

	for _, a := range d.Annotations {
		if err := g.Annotate(a.Layer, a.State, a.Value); err != nil {
			return nil, err
		}
	}

	return g, nil
}
