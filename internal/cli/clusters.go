package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/inkqr/inkqr/pkg/cluster"
	"github.com/inkqr/inkqr/pkg/pipeline"
	"github.com/inkqr/inkqr/pkg/qr"
	"github.com/inkqr/inkqr/pkg/render"
)

// clustersOpts holds the flags for the clusters command.
type clustersOpts struct {
	level     string
	minSize   int
	density   float64
	moore     bool
	dotOutput string // write adjacency graph as DOT
	svgOutput string // render adjacency graph as SVG via graphviz
	noCache   bool
	cacheURL  string
}

// clustersCommand creates the clusters command for component analysis.
func (c *CLI) clustersCommand() *cobra.Command {
	opts := clustersOpts{minSize: cluster.DefaultMinClusterSize, density: cluster.DefaultDensityThreshold}

	cmd := &cobra.Command{
		Use:   "clusters [text]",
		Short: "Analyze connected components of data modules",
		Long: `Analyze connected components of data modules.

The clusters command encodes the text and groups adjacent dark data modules
into clusters, printing their shape class, density, and rendering hints.
The adjacency structure can be exported as Graphviz DOT (--dot) or rendered
directly to an SVG diagram (--graph-svg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClusters(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.level, "level", "l", "", "error correction level: L, M (default), Q, H")
	cmd.Flags().IntVar(&opts.minSize, "min-size", opts.minSize, "minimum component size in modules")
	cmd.Flags().Float64Var(&opts.density, "density", opts.density, "minimum bounding-box density, [0,1]")
	cmd.Flags().BoolVar(&opts.moore, "diagonal", false, "use 8-way adjacency (include diagonals)")
	cmd.Flags().StringVar(&opts.dotOutput, "dot", "", "write the cluster adjacency graph as DOT")
	cmd.Flags().StringVar(&opts.svgOutput, "svg", "", "render the cluster adjacency graph as SVG")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.cacheURL, "cache-url", "", "redis cache URL")

	return cmd
}

func (c *CLI) runClusters(ctx context.Context, text string, opts *clustersOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache, opts.cacheURL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	enc, err := runner.Encode(ctx, pipeline.Options{
		Text:       text,
		ErrorLevel: qr.ErrorLevel(opts.level),
		Logger:     loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}

	cfg := cluster.Config{
		MinClusterSize:   opts.minSize,
		DensityThreshold: opts.density,
		Connectivity:     qr.ConnVonNeumann,
	}
	if opts.moore {
		cfg.Connectivity = qr.ConnMoore
	}

	detector, err := qr.NewDetector(enc.Matrix, enc.Version)
	if err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))
	clusters, err := cluster.NewAnalyzer(cfg).Process(enc.Matrix, detector)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d clusters", len(clusters)))

	printKeyValue("Text", text)
	printKeyValue("Version", enc.Version.String())
	printKeyValue("Clusters", fmt.Sprintf("%d", len(clusters)))
	printNewline()

	if len(clusters) > 0 {
		printClusterTable(clusters)
	}

	if opts.dotOutput != "" || opts.svgOutput != "" {
		dot := render.ClusterGraphDOT(clusters)
		if opts.dotOutput != "" {
			if err := writeArtifact([]byte(dot), opts.dotOutput); err != nil {
				return err
			}
		}
		if opts.svgOutput != "" {
			svg, err := render.RenderDOT(ctx, dot)
			if err != nil {
				return fmt.Errorf("render cluster graph: %w", err)
			}
			if err := writeArtifact(svg, opts.svgOutput); err != nil {
				return err
			}
		}
	}
	return nil
}

func printClusterTable(clusters []*cluster.Cluster) {
	rows := make([][]string, 0, len(clusters))
	for i, cl := range clusters {
		merge := cl.Hints.MergeStrategy
		if cl.Hints.RenderAsSingleShape {
			merge += " (single shape)"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(cl.ShapeType),
			fmt.Sprintf("%d", cl.ModuleCount),
			fmt.Sprintf("%dx%d", cl.BoundingBox.Width(), cl.BoundingBox.Height()),
			fmt.Sprintf("%.2f", cl.Density),
			fmt.Sprintf("%.2f", cl.Conn.ConnectivityRatio),
			merge,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Shape", "Modules", "Box", "Density", "Conn", "Merge").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t.Render())
}
