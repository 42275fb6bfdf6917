package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/inkqr/inkqr/pkg/cluster"
)

// ClusterGraphDOT converts cluster analysis results to Graphviz DOT format.
// Each cluster becomes a node labeled with its shape class and module count;
// clusters whose bounding boxes touch (expanded by one module) are connected,
// which makes the spatial grouping of a symbol visible at a glance.
func ClusterGraphDOT(clusters []*cluster.Cluster) string {
	var buf bytes.Buffer
	buf.WriteString("graph clusters {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for i, c := range clusters {
		label := fmt.Sprintf("%s\\n%d modules\\ndensity %.2f", c.ShapeType, c.ModuleCount, c.Density)
		fmt.Fprintf(&buf, "  c%d [label=\"%s\", pos=\"%.1f,%.1f\"];\n",
			i, label, c.CenterCol, -c.CenterRow)
	}

	buf.WriteString("\n")
	for i := 0; i < len(clusters); i++ {
		for j := i + 1; j < len(clusters); j++ {
			if boxesTouch(clusters[i].BoundingBox, clusters[j].BoundingBox) {
				fmt.Fprintf(&buf, "  c%d -- c%d;\n", i, j)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// boxesTouch reports whether two bounding boxes overlap when one is expanded
// by a single module in every direction.
func boxesTouch(a, b cluster.BoundingBox) bool {
	return a.MinRow-1 <= b.MaxRow && a.MaxRow+1 >= b.MinRow &&
		a.MinCol-1 <= b.MaxCol && a.MaxCol+1 >= b.MinCol
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
