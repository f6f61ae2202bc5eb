package trellis

import (
	"fmt"

	"github.com/lattix/trellis/pkg/errors"
)

// EdgeRef identifies one transition: from state From in layer Layer to
// state To in layer Layer+1.
type EdgeRef struct {
	Layer int `json:"layer"`
	From  int `json:"from"`
	To    int `json:"to"`
}

// String renders the reference as "layer:from->to".
func (e EdgeRef) String() string {
	return fmt.Sprintf("%d:%d->%d", e.Layer, e.From, e.To)
}

// MarkPath sets the highlight flag on exactly the referenced edges and
// clears it on every other edge. The sequence must form a contiguous
// directed path: each edge must leave the layer the previous one entered
// (Layer+1) and start at the state the previous one reached (From == prev.To).
// The path may begin at any layer.
//
// MarkPath(nil) clears all highlights. On failure — OUT_OF_RANGE for a
// reference outside the graph, BROKEN_PATH for a discontinuity — the graph
// is left unchanged.
func (g *Graph) MarkPath(refs []EdgeRef) error {
	for i, ref := range refs {
		if err := errors.ValidateEdge(ref.Layer, ref.From, ref.To, g.layers, g.states); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		prev := refs[i-1]
		if ref.Layer != prev.Layer+1 {
			return errors.New(errors.ErrCodeBrokenPath,
				"edge %v does not follow %v: layers not consecutive", ref, prev)
		}
		if ref.From != prev.To {
			return errors.New(errors.ErrCodeBrokenPath,
				"edge %v does not continue from %v: endpoints differ", ref, prev)
		}
	}

	// The whole sequence validated; only now touch the flags.
	for i := range g.highlighted {
		g.highlighted[i] = false
	}
	for _, ref := range refs {
		g.highlighted[g.edgeIndex(ref.Layer, ref.From, ref.To)] = true
	}
	return nil
}

// PathFromStates converts a per-layer state sequence into the edge sequence
// that visits it. The path must name exactly one state per layer, so its
// length must equal [Graph.Layers]. This is the natural form in which a
// Viterbi-style caller knows its best path.
func (g *Graph) PathFromStates(path []int) ([]EdgeRef, error) {
	if len(path) != g.layers {
		return nil, errors.New(errors.ErrCodeBrokenPath,
			"path visits %d layers, graph has %d", len(path), g.layers)
	}
	for layer, state := range path {
		if err := errors.ValidateNode(layer, state, g.layers, g.states); err != nil {
			return nil, err
		}
	}

	refs := make([]EdgeRef, g.layers-1)
	for layer := 0; layer < g.layers-1; layer++ {
		refs[layer] = EdgeRef{Layer: layer, From: path[layer], To: path[layer+1]}
	}
	return refs, nil
}

// MarkStatePath marks the path visiting the given state in every layer.
// It is shorthand for PathFromStates followed by MarkPath.
func (g *Graph) MarkStatePath(path []int) error {
	refs, err := g.PathFromStates(path)
	if err != nil {
		return err
	}
	return g.MarkPath(refs)
}

// HighlightedPath returns the currently highlighted edges in layer-major
// order. It returns nil when nothing is highlighted.
func (g *Graph) HighlightedPath() []EdgeRef {
	var refs []EdgeRef
	for layer := 0; layer < g.layers-1; layer++ {
		for from := 0; from < g.states; from++ {
			for to := 0; to < g.states; to++ {
				if g.highlighted[g.edgeIndex(layer, from, to)] {
					refs = append(refs, EdgeRef{Layer: layer, From: from, To: to})
				}
			}
		}
	}
	return refs
}
