// Package pipeline provides the core visualization pipeline for trellis
// diagrams.
//
// This package implements the complete build → layout → render pipeline
// shared by the CLI and the HTTP API. Centralizing it keeps behavior and
// caching identical across all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Construct the weighted trellis model from a scene file, a
//     parsed scene, or inline dimensions
//  2. Layout: Place every node in the requested viewport
//  3. Render: Generate output in various formats (SVG, PNG, DOT, JSON)
//
// Build results and rendered artifacts are cached. Layout is recomputed on
// every run; placement is closed-form arithmetic on the dimensions, so a
// cache round trip would cost more than the computation.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ScenePath: "viterbi.toml",
//	    Formats:   []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	g, err := runner.Build(ctx, opts)
//
//	// Render an existing graph
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lattix/trellis/pkg/cache"
	"github.com/lattix/trellis/pkg/errors"
	"github.com/lattix/trellis/pkg/layout"
	"github.com/lattix/trellis/pkg/scene"
	"github.com/lattix/trellis/pkg/trellis"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Engine constants select who produces the SVG artifact: the internal
// vector canvas, or Graphviz fed with the DOT form. PNG is always rasterized
// by the internal canvas.
const (
	EngineCanvas   = "canvas"
	EngineGraphviz = "graphviz"
)

// ValidEngines is the set of supported SVG engines.
var ValidEngines = map[string]bool{
	EngineCanvas:   true,
	EngineGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source options. Exactly one of ScenePath, Scene, or inline dimensions
	// (States and Layers) selects where the model comes from. Inline
	// dimensions build a uniform trellis with DefaultWeight on every edge.
	ScenePath     string       `json:"scene_path,omitempty"`
	Scene         *scene.Scene `json:"-"`
	States        int          `json:"states,omitempty"`
	Layers        int          `json:"layers,omitempty"`
	DefaultWeight float64      `json:"default_weight,omitempty"`

	// Layout options
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	MarginRatio float64 `json:"margin_ratio,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Engine  string   `json:"engine,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built trellis model.
	Graph *trellis.Graph

	// GraphHash is the content hash of the graph document.
	GraphHash string

	// Grid holds the node placements for the rendered viewport.
	Grid *layout.Grid

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the graph document came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an SVG engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid engine: %q (must be one of: canvas, graphviz)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks required fields for the build stage.
func (o *Options) ValidateForBuild() error {
	if o.ScenePath == "" && o.Scene == nil && o.States == 0 && o.Layers == 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"a scene path, a parsed scene, or inline dimensions are required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineCanvas
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateEngine(o.Engine)
}

// ApplyRenderParams fills unset layout and render fields from a scene's
// [render] table. Explicitly set options win; Labels is sticky because a
// false flag and an absent flag are indistinguishable here, so precedence
// for disabling labels belongs to the caller.
func (o *Options) ApplyRenderParams(p scene.RenderParams) {
	if o.Width == 0 && p.Width > 0 {
		o.Width = p.Width
	}
	if o.Height == 0 && p.Height > 0 {
		o.Height = p.Height
	}
	if o.MarginRatio == 0 && p.MarginRatio > 0 {
		o.MarginRatio = p.MarginRatio
	}
	if len(o.Formats) == 0 && len(p.Formats) > 0 {
		o.Formats = append([]string(nil), p.Formats...)
	}
	o.Labels = o.Labels || p.Labels
}

// Viewport returns the layout viewport for the configured frame size.
func (o *Options) Viewport() layout.Viewport {
	return layout.Viewport{Width: o.Width, Height: o.Height}
}

// layoutOptions translates the margin setting into layout options.
func (o *Options) layoutOptions() []layout.Option {
	if o.MarginRatio == 0 {
		return nil
	}
	return []layout.Option{layout.WithMarginRatio(o.MarginRatio)}
}

// resolveScene returns the scene the build stage should realize. Inline
// dimensions become a synthetic scene so every source shares one hash and
// one cache path.
func (o *Options) resolveScene() (*scene.Scene, error) {
	switch {
	case o.Scene != nil:
		return o.Scene, nil
	case o.ScenePath != "":
		return scene.Load(o.ScenePath)
	default:
		return &scene.Scene{
			States:        o.States,
			Layers:        o.Layers,
			DefaultWeight: o.DefaultWeight,
		}, nil
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		Width:       o.Width,
		Height:      o.Height,
		Labels:      o.Labels,
		MarginRatio: o.MarginRatio,
	}
	// Only the SVG artifact depends on the engine choice.
	if format == FormatSVG {
		opts.Engine = o.Engine
	}
	return opts
}
