package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lattix/trellis/pkg/pipeline"
	"github.com/lattix/trellis/pkg/scene"
)

// renderCommand creates the render command: scene file in, artifacts out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a trellis scene to image artifacts",
		Long: `Render a trellis scene to image artifacts.

The scene file declares the dimensions, weights, highlighted path, and
annotations of the diagram, plus optional render parameters. Command-line
flags override the scene's [render] table.

Build results and rendered artifacts are cached between runs, so
re-rendering an unchanged scene is a file read. Use --refresh to bypass
cache reads or --no-cache to disable caching entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Engine != "" {
				if err := pipeline.ValidateEngine(opts.Engine); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "frame width in pixels (default 800)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "frame height in pixels (default 600)")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw state labels on nodes")
	cmd.Flags().Float64Var(&opts.MarginRatio, "margin-ratio", 0, "margin as a fraction of the frame (default 0.08)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "svg engine: canvas (default), graphviz")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache reads (results are still written back)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the scene, runs the full pipeline, and writes every
// requested artifact next to the scene file (or at --output).
func (c *CLI) runRender(ctx context.Context, scenePath string, opts pipeline.Options, output string, noCache bool) error {
	s, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	opts.Scene = s
	opts.ApplyRenderParams(s.Render)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", scenePath))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(opts.Formats, ", ")))

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     scenePath,
		output:    output,
		stats:     result.Stats,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

// artifactWriteParams bundles everything writeArtifacts needs to place
// rendered bytes on disk and report the outcome.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	stats     pipeline.Stats
	cacheHit  bool
}

// writeArtifacts writes each rendered format to its output path and prints
// the result. A single format honors --output verbatim; multiple formats
// share a base path and take their format as extension.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)

	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		path := p.output
		if path == "" || len(p.formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", filepath.Base(p.input))
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.stats.NodeCount, p.stats.EdgeCount, p.cacheHit)
	return nil
}

// basePath derives the base output path from the output and input paths.
// An empty output strips the extension from input; an output naming a known
// format extension loses it so formats can append their own.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
