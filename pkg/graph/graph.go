package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/trellis"
)

// Marshal converts a trellis to JSON bytes.
// Output is deterministic for a given graph.
func Marshal(g *trellis.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a trellis.
func Unmarshal(data []byte) (*trellis.Graph, error) {
	return readFrom(bytes.NewReader(data))
}

// Write encodes a trellis as indented JSON to w.
// The output can be re-imported with [Read] for round-trip processing.
func Write(g *trellis.Graph, w io.Writer) error {
	return writeTo(g, w)
}

// Read decodes a JSON document from r into a trellis.
// Returns validation errors for malformed documents: INVALID_INPUT for bad
// JSON or duplicate edges, and the model's own codes (INVALID_DIMENSION,
// OUT_OF_RANGE, BROKEN_PATH) for contract violations.
func Read(r io.Reader) (*trellis.Graph, error) {
	return readFrom(r)
}

// WriteFile writes a trellis to a JSON file at path.
func WriteFile(g *trellis.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return writeTo(g, f)
}

// ReadFile reads a JSON file at path and returns the decoded trellis.
// Returns the same validation errors as [Read].
func ReadFile(path string) (*trellis.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return readFrom(f)
}

func writeTo(g *trellis.Graph, w io.Writer) error {
	if g == nil {
		return errors.New(errors.ErrCodeEmptyGraph, "no graph to encode")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

func readFrom(r io.Reader) (*trellis.Graph, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}
	return d.ToGraph()
}
