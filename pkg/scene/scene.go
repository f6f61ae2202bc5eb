// Package scene loads TOML descriptions of a trellis to build and render.
//
// A scene file declares the dimensions, an optional default weight, sparse
// weight overrides, the highlighted path as one state per layer, node
// annotations, and render parameters:
//
//	states = 3
//	layers = 4
//	default-weight = 1.0
//	path = [0, 2, 1, 1]
//
//	[render]
//	width = 800.0
//	height = 600.0
//	labels = true
//	formats = ["svg", "png"]
//
//	[[transition]]
//	layer = 0
//	from = 0
//	to = 2
//	weight = 0.25
//
//	[[annotation]]
//	layer = 1
//	state = 2
//	value = 0.75
//
// Render formats are opaque strings here; the pipeline validates them
// against its own format table.
package scene

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lattix/trellis/pkg/cache"
	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/trellis"
)

// Scene is a parsed scene file.
type Scene struct {
	States        int          `toml:"states" json:"states"`
	Layers        int          `toml:"layers" json:"layers"`
	DefaultWeight float64      `toml:"default-weight" json:"default_weight"`
	Path          []int        `toml:"path" json:"path,omitempty"`
	Transitions   []Transition `toml:"transition" json:"transitions,omitempty"`
	Annotations   []Annotation `toml:"annotation" json:"annotations,omitempty"`
	Render        RenderParams `toml:"render" json:"render"`
}

// Transition overrides the weight of a single edge.
type Transition struct {
	Layer  int     `toml:"layer" json:"layer"`
	From   int     `toml:"from" json:"from"`
	To     int     `toml:"to" json:"to"`
	Weight float64 `toml:"weight" json:"weight"`
}

// Annotation attaches a value to a node.
type Annotation struct {
	Layer int     `toml:"layer" json:"layer"`
	State int     `toml:"state" json:"state"`
	Value float64 `toml:"value" json:"value"`
}

// RenderParams carries the scene's render settings. Zero values defer to
// the pipeline defaults.
type RenderParams struct {
	Width       float64  `toml:"width" json:"width"`
	Height      float64  `toml:"height" json:"height"`
	Labels      bool     `toml:"labels" json:"labels"`
	MarginRatio float64  `toml:"margin-ratio" json:"margin_ratio"`
	Formats     []string `toml:"formats" json:"formats,omitempty"`
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read %s", path)
	}
	return parse(data)
}

// Parse decodes and validates a scene from r.
func Parse(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "read scene")
	}
	return parse(data)
}

func parse(data []byte) (*Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// validate checks every field against the model's contracts so Graph can
// build without surprises. Messages name the offending field.
func (s *Scene) validate() error {
	if s.States < 1 {
		return errors.New(errors.ErrCodeInvalidScene, "states must be positive, got %d", s.States)
	}
	if s.Layers < 2 {
		return errors.New(errors.ErrCodeInvalidScene, "layers must be at least 2, got %d", s.Layers)
	}

	for i, tr := range s.Transitions {
		if tr.Layer < 0 || tr.Layer >= s.Layers-1 {
			return errors.New(errors.ErrCodeInvalidScene,
				"transition[%d]: layer %d outside [0,%d)", i, tr.Layer, s.Layers-1)
		}
		if tr.From < 0 || tr.From >= s.States {
			return errors.New(errors.ErrCodeInvalidScene,
				"transition[%d]: from %d outside [0,%d)", i, tr.From, s.States)
		}
		if tr.To < 0 || tr.To >= s.States {
			return errors.New(errors.ErrCodeInvalidScene,
				"transition[%d]: to %d outside [0,%d)", i, tr.To, s.States)
		}
	}

	if len(s.Path) > 0 {
		if len(s.Path) != s.Layers {
			return errors.New(errors.ErrCodeInvalidScene,
				"path has %d states, want one per layer (%d)", len(s.Path), s.Layers)
		}
		for i, st := range s.Path {
			if st < 0 || st >= s.States {
				return errors.New(errors.ErrCodeInvalidScene,
					"path[%d]: state %d outside [0,%d)", i, st, s.States)
			}
		}
	}

	for i, a := range s.Annotations {
		if a.Layer < 0 || a.Layer >= s.Layers {
			return errors.New(errors.ErrCodeInvalidScene,
				"annotation[%d]: layer %d outside [0,%d)", i, a.Layer, s.Layers)
		}
		if a.State < 0 || a.State >= s.States {
			return errors.New(errors.ErrCodeInvalidScene,
				"annotation[%d]: state %d outside [0,%d)", i, a.State, s.States)
		}
	}

	if s.Render.Width < 0 || s.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "render dimensions must not be negative")
	}
	if s.Render.MarginRatio < 0 || s.Render.MarginRatio >= 0.5 {
		return errors.New(errors.ErrCodeInvalidScene,
			"render margin-ratio %v outside [0,0.5)", s.Render.MarginRatio)
	}

	return nil
}

// Graph builds the trellis the scene describes: default weight everywhere,
// transition overrides applied, path marked, annotations attached.
func (s *Scene) Graph() (*trellis.Graph, error) {
	type edgeKey struct{ layer, from, to int }
	overrides := make(map[edgeKey]float64, len(s.Transitions))
	for _, tr := range s.Transitions {
		overrides[edgeKey{tr.Layer, tr.From, tr.To}] = tr.Weight
	}

	g, err := trellis.Build(s.States, s.Layers, func(from, to, layer int) float64 {
		if w, ok := overrides[edgeKey{layer, from, to}]; ok {
			return w
		}
		return s.DefaultWeight
	})
	if err != nil {
		return nil, err
	}

	if len(s.Path) > 0 {
		if err := g.MarkStatePath(s.Path); err != nil {
			return nil, err
		}
	}

	for _, a := range s.Annotations {
		if err := g.Annotate(a.Layer, a.State, a.Value); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Hash returns a canonical content hash of the scene, stable across TOML
// formatting and comments. Used as the pipeline's graph cache key.
func (s *Scene) Hash() string {
	data, _ := json.Marshal(s)
	return cache.Hash(data)
}
