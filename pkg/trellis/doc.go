// Package trellis provides the graph model for trellis diagrams: a fixed
// set of states evolving across discrete time steps, with dense weighted
// transitions between consecutive steps.
//
// # Overview
//
// A trellis diagram is the structure behind Viterbi-style decoders and
// layered finite-state machine visualizations. Every time step (a layer)
// contains one node per state, and every state in layer t connects to every
// state in layer t+1. A graph with S states and T layers therefore always
// holds exactly S·T nodes and S²·(T−1) edges.
//
// # Basic Usage
//
// Build a graph with [Build], supplying a [WeightFunc] that is consulted
// exactly once per transition:
//
//	g, err := trellis.Build(3, 4, func(from, to, layer int) float64 {
//	    return 1.0
//	})
//
// After construction the structure is fixed: no nodes or edges are ever
// added or removed. Two selective mutations remain — [Graph.MarkPath]
// highlights one contiguous path of edges (clearing all other highlights),
// and [Graph.Annotate] attaches a numeric annotation to a node.
//
// # Identity
//
// Nodes are identified by (layer, state) and edges by [EdgeRef]: the layer
// the transition leaves from plus its endpoint states. There are no node or
// edge objects to hold; the accessors [Graph.Weight], [Graph.Highlighted]
// and [Graph.Annotation] read straight from the dense backing arrays.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must serialize
// access if one goroutine mutates (MarkPath, Annotate) while another reads.
// The handle registry in pkg/app provides that boundary for shells that
// need it.
package trellis
