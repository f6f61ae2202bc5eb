package trellis

import (
	"github.com/lattix/trellis/pkg/errors"
)

// WeightFunc supplies the weight of the transition from state from in the
// given layer to state to in layer+1. Build calls it exactly once per edge,
// in layer-major order (layer, then from, then to, all ascending).
type WeightFunc func(from, to, layer int) float64

// UniformWeight returns a WeightFunc that assigns w to every transition.
func UniformWeight(w float64) WeightFunc {
	return func(int, int, int) float64 { return w }
}

// Graph is a trellis: states × layers with dense transitions between
// consecutive layers. The zero value is not usable; construct with [Build].
//
// All per-edge and per-node data lives in flat arrays indexed by
// (layer, state) for nodes and (layer, from, to) for edges, so identity is
// positional and lookups never allocate.
type Graph struct {
	states int
	layers int

	weights     []float64 // edge weights, edge-indexed
	highlighted []bool    // highlight flags, edge-indexed
	annotations []float64 // node annotations, node-indexed
	annotated   []bool    // whether a node carries an annotation
}

// Build constructs a trellis with the given dimensions. fn is consulted
// once per transition; a nil fn leaves every weight zero.
//
// Build fails with an INVALID_DIMENSION error when states <= 0 or
// layers < 2 (a single layer has no transitions, which is not a trellis).
func Build(states, layers int, fn WeightFunc) (*Graph, error) {
	if err := errors.ValidateDimensions(states, layers); err != nil {
		return nil, err
	}

	g := &Graph{
		states:      states,
		layers:      layers,
		weights:     make([]float64, states*states*(layers-1)),
		highlighted: make([]bool, states*states*(layers-1)),
		annotations: make([]float64, states*layers),
		annotated:   make([]bool, states*layers),
	}

	if fn != nil {
		for layer := 0; layer < layers-1; layer++ {
			for from := 0; from < states; from++ {
				for to := 0; to < states; to++ {
					g.weights[g.edgeIndex(layer, from, to)] = fn(from, to, layer)
				}
			}
		}
	}

	return g, nil
}

// States returns the number of states per layer (S).
func (g *Graph) States() int { return g.states }

// Layers returns the number of time steps (T).
func (g *Graph) Layers() int { return g.layers }

// NodeCount returns S·T, the total number of nodes.
func (g *Graph) NodeCount() int { return g.states * g.layers }

// EdgeCount returns S²·(T−1), the total number of edges.
func (g *Graph) EdgeCount() int { return g.states * g.states * (g.layers - 1) }

// Weight returns the weight of the transition (layer, from, to).
// Out-of-range coordinates return 0.
func (g *Graph) Weight(layer, from, to int) float64 {
	if !g.edgeInRange(layer, from, to) {
		return 0
	}
	return g.weights[g.edgeIndex(layer, from, to)]
}

// Highlighted reports whether the transition (layer, from, to) is part of
// the currently marked path. Out-of-range coordinates return false.
func (g *Graph) Highlighted(layer, from, to int) bool {
	if !g.edgeInRange(layer, from, to) {
		return false
	}
	return g.highlighted[g.edgeIndex(layer, from, to)]
}

// Annotate attaches a numeric annotation (a cost, probability, or similar)
// to the node at (layer, state). It fails with an OUT_OF_RANGE error when
// the coordinates fall outside the graph.
func (g *Graph) Annotate(layer, state int, value float64) error {
	if err := errors.ValidateNode(layer, state, g.layers, g.states); err != nil {
		return err
	}
	i := g.nodeIndex(layer, state)
	g.annotations[i] = value
	g.annotated[i] = true
	return nil
}

// Annotation returns the node's annotation and whether one has been set.
// Out-of-range coordinates return (0, false).
func (g *Graph) Annotation(layer, state int) (float64, bool) {
	if !g.nodeInRange(layer, state) {
		return 0, false
	}
	i := g.nodeIndex(layer, state)
	return g.annotations[i], g.annotated[i]
}

// AnnotationRange returns the minimum and maximum annotation values present
// in the graph. ok is false when no node has been annotated.
func (g *Graph) AnnotationRange() (min, max float64, ok bool) {
	for i, set := range g.annotated {
		if !set {
			continue
		}
		v := g.annotations[i]
		if !ok || v < min {
			min = v
		}
		if !ok || v > max {
			max = v
		}
		ok = true
	}
	return min, max, ok
}

// nodeIndex maps (layer, state) onto the flat node arrays.
func (g *Graph) nodeIndex(layer, state int) int {
	return layer*g.states + state
}

// edgeIndex maps (layer, from, to) onto the flat edge arrays.
func (g *Graph) edgeIndex(layer, from, to int) int {
	return (layer*g.states+from)*g.states + to
}

func (g *Graph) nodeInRange(layer, state int) bool {
	return layer >= 0 && layer < g.layers && state >= 0 && state < g.states
}

func (g *Graph) edgeInRange(layer, from, to int) bool {
	return layer >= 0 && layer < g.layers-1 &&
		from >= 0 && from < g.states &&
		to >= 0 && to < g.states
}
