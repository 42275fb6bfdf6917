package centerpiece

import (
	"math"

	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Bounds
// =============================================================================

// Bounds is the inclusive module-coordinate extent of a reserve area,
// clipped to the matrix.
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the horizontal extent in modules.
func (b Bounds) Width() int { return b.Right - b.Left + 1 }

// Height returns the vertical extent in modules.
func (b Bounds) Height() int { return b.Bottom - b.Top + 1 }

// Overlaps reports whether two bounds share any module.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Left <= o.Right && o.Left <= b.Right && b.Top <= o.Bottom && o.Top <= b.Bottom
}

// =============================================================================
// Geometry
// =============================================================================

// Geometry performs the pure reserve-area calculations for one matrix size.
type Geometry struct {
	size int
}

// NewGeometry creates geometry for an N×N matrix.
func NewGeometry(matrixSize int) *Geometry {
	return &Geometry{size: matrixSize}
}

// center resolves the reserve center in module coordinates.
// Center placement pins the reserve to the matrix middle; custom placement
// shifts it by the configured offsets; corners and edges snap it toward the
// bottom-right corner and the bottom edge respectively, where logos
// conventionally sit clear of the finder patterns.
func (g *Geometry) center(cfg Config) (cx, cy float64) {
	cfg = cfg.withDefaults()
	n := float64(g.size)
	half := g.halfExtent(cfg)

	switch cfg.Placement {
	case PlacementCustom:
		return n/2 + cfg.OffsetX*n, n/2 + cfg.OffsetY*n
	case PlacementCorners:
		inset := half + cfg.Margin + 1
		return n - inset, n - inset
	case PlacementEdges:
		return n / 2, n - (half + cfg.Margin + 1)
	default: // PlacementCenter forces zero offset
		return n / 2, n / 2
	}
}

// halfExtent is half the reserve side length in modules, margin included.
func (g *Geometry) halfExtent(cfg Config) float64 {
	return cfg.Size*float64(g.size)/2 + cfg.Margin
}

// Bounds computes the reserve bounding box in module coordinates, clipped
// to the matrix.
func (g *Geometry) Bounds(cfg Config) Bounds {
	cx, cy := g.center(cfg)
	half := g.halfExtent(cfg)

	b := Bounds{
		Left:   int(math.Floor(cx - half)),
		Top:    int(math.Floor(cy - half)),
		Right:  int(math.Ceil(cx+half)) - 1,
		Bottom: int(math.Ceil(cy+half)) - 1,
	}
	return g.clip(b)
}

func (g *Geometry) clip(b Bounds) Bounds {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= g.size {
			return g.size - 1
		}
		return v
	}
	b.Left, b.Right = clamp(b.Left), clamp(b.Right)
	b.Top, b.Bottom = clamp(b.Top), clamp(b.Bottom)
	if b.Left > b.Right {
		b.Left = b.Right
	}
	if b.Top > b.Bottom {
		b.Top = b.Bottom
	}
	return b
}

// IsInside reports whether module (row, col) lies inside the reserve area.
// Rect is an axis-aligned box test, circle a Euclidean radius test, squircle
// the superellipse inequality (|x|/rx)⁴ + (|y|/ry)⁴ ≤ 1.
func (g *Geometry) IsInside(row, col int, cfg Config) bool {
	if !cfg.Enabled || cfg.Size <= 0 {
		return false
	}
	cfg = cfg.withDefaults()
	cx, cy := g.center(cfg)
	r := g.halfExtent(cfg)
	dx := float64(col) - cx
	dy := float64(row) - cy

	switch cfg.Shape {
	case ShapeCircle:
		return dx*dx+dy*dy <= r*r
	case ShapeSquircle:
		if r == 0 {
			return false
		}
		return math.Pow(math.Abs(dx)/r, 4)+math.Pow(math.Abs(dy)/r, 4) <= 1
	default: // rect
		return math.Abs(dx) <= r && math.Abs(dy) <= r
	}
}

// DistanceFromCenter returns the normalized distance of (row, col) from the
// reserve center: 0 at the center, 1 at the reserve edge, above 1 outside.
func (g *Geometry) DistanceFromCenter(row, col int, cfg Config) float64 {
	cfg = cfg.withDefaults()
	cx, cy := g.center(cfg)
	r := g.halfExtent(cfg)
	if r == 0 {
		return 1
	}
	dx := float64(col) - cx
	dy := float64(row) - cy
	return math.Sqrt(dx*dx+dy*dy) / r
}

// =============================================================================
// Edge Modules
// =============================================================================

// IsEdgeModule reports whether (row, col) is inside the reserve but touches
// at least one module outside it, under the given connectivity.
func (g *Geometry) IsEdgeModule(row, col int, cfg Config, conn qr.Connectivity) bool {
	if !g.IsInside(row, col, cfg) {
		return false
	}
	for _, nb := range g.neighbors(row, col, conn) {
		if !g.IsInside(nb[0], nb[1], cfg) {
			return true
		}
	}
	return false
}

// ShouldClearEdgeModule decides whether an edge module joins the knockout.
// The rule: clear only when strictly more than half of the module's in-bounds
// neighbors are interior reserve modules (cleared unconditionally). This
// keeps the boundary smooth without nibbling modules that barely graze the
// reserve.
func (g *Geometry) ShouldClearEdgeModule(row, col int, cfg Config, conn qr.Connectivity) bool {
	if !g.IsEdgeModule(row, col, cfg, conn) {
		return false
	}
	neighbors := g.neighbors(row, col, conn)
	if len(neighbors) == 0 {
		return false
	}
	interior := 0
	for _, nb := range neighbors {
		if g.IsInside(nb[0], nb[1], cfg) && !g.IsEdgeModule(nb[0], nb[1], cfg, conn) {
			interior++
		}
	}
	return interior*2 > len(neighbors)
}

func (g *Geometry) neighbors(row, col int, conn qr.Connectivity) [][2]int {
	offs := [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	if conn == qr.ConnMoore {
		offs = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	}
	out := make([][2]int, 0, len(offs))
	for _, o := range offs {
		r, c := row+o[0], col+o[1]
		if r >= 0 && r < g.size && c >= 0 && c < g.size {
			out = append(out, [2]int{r, c})
		}
	}
	return out
}

// =============================================================================
// Safe Reserve Size
// =============================================================================

// reserveSafetyMargin keeps the recommended reserve comfortably inside the
// theoretical error-correction limit.
const reserveSafetyMargin = 0.8

// SafeReserveSize returns the largest centerpiece size fraction that stays
// within the error-correction recovery budget for the version and level.
//
// The area a reserve may consume is the recovery capacity applied to the
// modules that actually carry data: structural overhead (finders, timing,
// format, alignment, version info) shrinks as versions grow, so larger
// symbols tolerate proportionally larger reserves. The returned value is the
// linear size fraction (area budget squared away) capped at the 0.5
// configuration maximum.
func SafeReserveSize(version qr.Version, level qr.ErrorLevel) float64 {
	if version.IsZero() {
		version = qr.Version{Number: 1}
	}
	n := version.Size()
	total := n * n

	overhead := structuralOverhead(version, n)
	usable := float64(total-overhead) / float64(total)

	areaBudget := level.RecoveryCapacity() * reserveSafetyMargin * usable
	size := math.Sqrt(areaBudget)
	return math.Min(size, 0.5)
}

// structuralOverhead estimates the module count of function patterns.
func structuralOverhead(v qr.Version, n int) int {
	// Three finders with separators.
	overhead := 3 * (49 + 15)
	// Two timing strips between the finders.
	overhead += 2 * (n - 16)
	// Format information plus the dark module.
	overhead += 31 + 1
	if !v.Micro {
		if v.Number >= 7 {
			overhead += 36
		}
		if v.Number >= 2 {
			// Alignment patterns: 5×5 each, one per non-finder coordinate pair.
			coords := alignmentCount(v.Number)
			overhead += 25 * coords
		}
	}
	return overhead
}

// alignmentCount returns the number of alignment patterns for a version:
// k² - 3 for k coordinates (three corners collide with finders).
func alignmentCount(version int) int {
	k := 0
	switch {
	case version < 2:
		k = 0
	case version <= 6:
		k = 2
	default:
		k = version/7 + 2
	}
	if k == 0 {
		return 0
	}
	return k*k - 3
}
