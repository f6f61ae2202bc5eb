// Package graph provides the JSON interchange format for trellis graphs.
//
// This package defines the canonical wire format for trellis data, used for
// JSON files, API responses, and caching.
//
// # Format
//
// A document records dimensions plus only the edges and nodes that differ
// from a freshly built graph: edges with a non-zero weight or a highlight
// flag, and nodes carrying an annotation. A dense trellis with mostly
// default weights stays small on the wire.
//
//	{
//	  "states": 3,
//	  "layers": 4,
//	  "edges": [{"layer": 0, "from": 0, "to": 1, "weight": 0.5, "highlighted": true}],
//	  "annotations": [{"layer": 1, "state": 2, "value": 0.25}]
//	}
//
// # Round Trips
//
// Encode → decode reproduces the graph exactly: weights, the marked path,
// and annotations all survive. Decoding validates as it rebuilds, so a
// document with out-of-range coordinates or a disconnected highlight set
// fails with the same error codes the model itself uses.
//
// # Common Operations
//
//	data, _ := graph.Marshal(g)          // Graph → []byte
//	g, _ := graph.Unmarshal(data)        // []byte → Graph
//	graph.WriteFile(g, "trellis.json")   // Graph → file
//	g, _ := graph.ReadFile("trellis.json")
package graph
