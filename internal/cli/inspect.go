package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lattix/trellis/pkg/graph"
	"github.com/lattix/trellis/pkg/scene"
	"github.com/lattix/trellis/pkg/trellis"
)

// inspectCommand creates the inspect command for summarizing a model.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the model a scene or document describes",
		Long: `Print the model a scene or document describes.

Accepts a scene file (.toml) or a graph document (.json), builds the model,
and prints its dimensions, edge statistics, highlighted path, and annotation
range without rendering anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0])
		},
	}
}

// runInspect builds the model and prints its summary.
func (c *CLI) runInspect(path string) error {
	prog := newProgress(c.Logger)
	g, err := loadModel(path)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %dx%d trellis", g.States(), g.Layers()))

	fmt.Println(StyleTitle.Render(filepath.Base(path)))
	printKeyValue("States", fmt.Sprintf("%d", g.States()))
	printKeyValue("Layers", fmt.Sprintf("%d", g.Layers()))
	printKeyValue("Nodes", fmt.Sprintf("%d", g.NodeCount()))
	printKeyValue("Edges", fmt.Sprintf("%d", g.EdgeCount()))
	printKeyValue("Weights", weightSummary(g))
	printKeyValue("Path", pathSummary(g))
	printKeyValue("Annotations", annotationSummary(g))

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		printNewline()
		printNextStep("Render it", fmt.Sprintf("trellis render %s", path))
	}
	return nil
}

// loadModel reads path as a scene or a graph document depending on its
// extension. Anything but .json is tried as a scene.
func loadModel(path string) (*trellis.Graph, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return graph.ReadFile(path)
	}
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	return s.Graph()
}

// weightSummary reports how many transitions carry weight and their range.
func weightSummary(g *trellis.Graph) string {
	lo, hi := g.Weight(0, 0, 0), g.Weight(0, 0, 0)
	nonzero := 0
	for layer := 0; layer < g.Layers()-1; layer++ {
		for from := 0; from < g.States(); from++ {
			for to := 0; to < g.States(); to++ {
				w := g.Weight(layer, from, to)
				if w != 0 {
					nonzero++
				}
				if w < lo {
					lo = w
				}
				if w > hi {
					hi = w
				}
			}
		}
	}
	if nonzero == 0 {
		return "all zero"
	}
	return fmt.Sprintf("%d non-zero, range [%.4g, %.4g]", nonzero, lo, hi)
}

// pathSummary formats the highlighted path as the state sequence it visits.
func pathSummary(g *trellis.Graph) string {
	refs := g.HighlightedPath()
	if len(refs) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(refs)+1)
	parts = append(parts, fmt.Sprintf("s%d", refs[0].From))
	for _, ref := range refs {
		parts = append(parts, fmt.Sprintf("s%d", ref.To))
	}
	seq := strings.Join(parts, " "+iconArrow+" ")
	if refs[0].Layer > 0 {
		return fmt.Sprintf("%s (from layer %d)", seq, refs[0].Layer)
	}
	return seq
}

// annotationSummary reports how many nodes are annotated and their range.
func annotationSummary(g *trellis.Graph) string {
	lo, hi, ok := g.AnnotationRange()
	if !ok {
		return "none"
	}
	count := 0
	for layer := 0; layer < g.Layers(); layer++ {
		for state := 0; state < g.States(); state++ {
			if _, set := g.Annotation(layer, state); set {
				count++
			}
		}
	}
	return fmt.Sprintf("%d nodes, range [%.4g, %.4g]", count, lo, hi)
}
