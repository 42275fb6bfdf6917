package cluster

import (
	"gonum.org/v1/gonum/stat"

	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Cluster Types
// =============================================================================

// ShapeType classifies a cluster's bounding-box geometry.
type ShapeType string

// Shape classes, decided by fixed aspect-ratio thresholds.
const (
	ShapeVerticalLine        ShapeType = "vertical_line"
	ShapeHorizontalLine      ShapeType = "horizontal_line"
	ShapeSquareCluster       ShapeType = "square_cluster"
	ShapeHorizontalRectangle ShapeType = "horizontal_rectangle"
	ShapeVerticalRectangle   ShapeType = "vertical_rectangle"
	ShapeRectangleCluster    ShapeType = "rectangle_cluster"
)

// BoundingBox is the inclusive module-coordinate extent of a cluster.
type BoundingBox struct {
	MinRow int `json:"min_row"`
	MinCol int `json:"min_col"`
	MaxRow int `json:"max_row"`
	MaxCol int `json:"max_col"`
}

// Width returns the box width in modules.
func (b BoundingBox) Width() int { return b.MaxCol - b.MinCol + 1 }

// Height returns the box height in modules.
func (b BoundingBox) Height() int { return b.MaxRow - b.MinRow + 1 }

// Area returns the box area in modules.
func (b BoundingBox) Area() int { return b.Width() * b.Height() }

// Connectivity captures internal adjacency metrics of a cluster.
type Connectivity struct {
	// InternalConnections counts undirected cardinal (4-way) edges.
	InternalConnections int `json:"internal_connections"`
	// CornerConnections counts undirected diagonal edges.
	CornerConnections int `json:"corner_connections"`
	// ConnectivityRatio is the mean cardinal degree over the maximum
	// possible degree of 4: a full rectangular block approaches 1.0,
	// a thin chain stays near 0.5.
	ConnectivityRatio float64 `json:"connectivity_ratio"`
	// AvgConnectionsPerModule is the mean cardinal degree.
	AvgConnectionsPerModule float64 `json:"avg_connections_per_module"`
}

// RenderingHints tell the SVG layer how to draw a cluster.
type RenderingHints struct {
	RenderAsSingleShape bool    `json:"render_as_single_shape"`
	PreferredShape      string  `json:"preferred_shape"`
	Roundness           float64 `json:"roundness"`
	MergeStrategy       string  `json:"merge_strategy"`
	StrokeWidth         float64 `json:"stroke_width"`
}

// Merge strategies for rendering hints.
const (
	MergeUnified    = "unified"    // draw one path for the whole cluster
	MergeIndividual = "individual" // draw each module separately
)

// Preferred shapes for rendering hints.
const (
	PreferredRoundedRectangle = "rounded_rectangle"
	PreferredPill             = "pill"
	PreferredRoundedSquare    = "rounded_square"
)

// Cluster is one accepted connected component. Clusters are built once per
// analysis pass and never mutated afterwards.
type Cluster struct {
	Positions   [][2]int       `json:"positions"`
	BoundingBox BoundingBox    `json:"bounding_box"`
	ModuleCount int            `json:"module_count"`
	Density     float64        `json:"density"`
	AspectRatio float64        `json:"aspect_ratio"`
	ShapeType   ShapeType      `json:"shape_type"`
	CenterRow   float64        `json:"center_row"`
	CenterCol   float64        `json:"center_col"`
	Conn        Connectivity   `json:"connectivity"`
	Hints       RenderingHints `json:"rendering_hints"`
	ModuleType  qr.ModuleType  `json:"module_type"`
}

// Contains reports whether the cluster includes the given position.
func (c *Cluster) Contains(row, col int) bool {
	for _, p := range c.Positions {
		if p[0] == row && p[1] == col {
			return true
		}
	}
	return false
}

// =============================================================================
// Metrics
// =============================================================================

// Thresholds for shape classification and rendering hints.
const (
	squareTolerance    = 0.3 // |aspect-1| below this is square
	wideAspect         = 2.0 // aspect above this is a horizontal rectangle
	tallAspect         = 0.5 // aspect below this is a vertical rectangle
	singleShapeMinSize = 4
	singleShapeRatio   = 0.6
	roundnessScaleAt   = 10.0 // clusters below this size get reduced roundness
)

// analyze fills in all computed fields of a freshly traversed cluster.
func analyze(c *Cluster) {
	box := boundingBox(c.Positions)
	c.BoundingBox = box
	c.ModuleCount = len(c.Positions)
	c.Density = float64(c.ModuleCount) / float64(box.Area())
	c.AspectRatio = aspectRatio(box)
	c.ShapeType = classifyShape(box, c.AspectRatio)
	c.CenterRow, c.CenterCol = centerOfMass(c.Positions)
	c.Conn = connectivityMetrics(c.Positions)
	c.Hints = renderingHints(c)
}

func boundingBox(positions [][2]int) BoundingBox {
	box := BoundingBox{
		MinRow: positions[0][0], MaxRow: positions[0][0],
		MinCol: positions[0][1], MaxCol: positions[0][1],
	}
	for _, p := range positions[1:] {
		if p[0] < box.MinRow {
			box.MinRow = p[0]
		}
		if p[0] > box.MaxRow {
			box.MaxRow = p[0]
		}
		if p[1] < box.MinCol {
			box.MinCol = p[1]
		}
		if p[1] > box.MaxCol {
			box.MaxCol = p[1]
		}
	}
	return box
}

// aspectRatio is width/height; a zero height (impossible for a non-empty box,
// defended anyway) falls back to 1.0.
func aspectRatio(box BoundingBox) float64 {
	h := box.Height()
	if h == 0 {
		return 1.0
	}
	return float64(box.Width()) / float64(h)
}

func classifyShape(box BoundingBox, aspect float64) ShapeType {
	w, h := box.Width(), box.Height()
	switch {
	case w == 1 && h > 2:
		return ShapeVerticalLine
	case h == 1 && w > 2:
		return ShapeHorizontalLine
	case aspect > 1-squareTolerance && aspect < 1+squareTolerance:
		return ShapeSquareCluster
	case aspect > wideAspect:
		return ShapeHorizontalRectangle
	case aspect < tallAspect:
		return ShapeVerticalRectangle
	default:
		return ShapeRectangleCluster
	}
}

func centerOfMass(positions [][2]int) (row, col float64) {
	rows := make([]float64, len(positions))
	cols := make([]float64, len(positions))
	for i, p := range positions {
		rows[i] = float64(p[0])
		cols[i] = float64(p[1])
	}
	return stat.Mean(rows, nil), stat.Mean(cols, nil)
}

// connectivityMetrics counts cardinal and diagonal adjacencies within the
// cluster. Each pair is seen from both endpoints, so raw counts are halved to
// count undirected edges once.
func connectivityMetrics(positions [][2]int) Connectivity {
	members := make(map[[2]int]bool, len(positions))
	for _, p := range positions {
		members[p] = true
	}

	cardinal, diagonal := 0, 0
	for _, p := range positions {
		for _, o := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			if members[[2]int{p[0] + o[0], p[1] + o[1]}] {
				cardinal++
			}
		}
		for _, o := range [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
			if members[[2]int{p[0] + o[0], p[1] + o[1]}] {
				diagonal++
			}
		}
	}

	n := len(positions)
	conn := Connectivity{
		InternalConnections: cardinal / 2,
		CornerConnections:   diagonal / 2,
	}
	if n > 0 {
		conn.ConnectivityRatio = float64(cardinal) / float64(4*n)
		conn.AvgConnectionsPerModule = float64(cardinal) / float64(n)
	}
	return conn
}

func renderingHints(c *Cluster) RenderingHints {
	hints := RenderingHints{
		PreferredShape: PreferredRoundedRectangle,
		Roundness:      0.2,
		MergeStrategy:  MergeIndividual,
	}

	if c.ModuleCount >= singleShapeMinSize && c.Conn.ConnectivityRatio > singleShapeRatio {
		hints.RenderAsSingleShape = true
		hints.MergeStrategy = MergeUnified
		hints.StrokeWidth = 1.0
	}

	switch c.ShapeType {
	case ShapeVerticalLine, ShapeHorizontalLine:
		hints.PreferredShape = PreferredPill
		hints.Roundness = 0.5
	case ShapeSquareCluster:
		hints.PreferredShape = PreferredRoundedSquare
		hints.Roundness = 0.3
	case ShapeHorizontalRectangle, ShapeVerticalRectangle, ShapeRectangleCluster:
		longest := c.BoundingBox.Width()
		if h := c.BoundingBox.Height(); h > longest {
			longest = h
		}
		hints.Roundness = min(0.4, 1.0/float64(longest))
	}

	// Avoid over-rounding small clusters.
	hints.Roundness *= min(1.0, float64(c.ModuleCount)/roundnessScaleAt)
	return hints
}
