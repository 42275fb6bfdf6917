package centerpiece

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkqr/inkqr/pkg/qr"
)

// allDarkSymbol builds an n×n matrix with every module dark plus a detector
// for it. Useful for exercising geometry against every module position.
func allDarkSymbol(t *testing.T, n int) (*qr.Matrix, *qr.Detector) {
	t.Helper()
	m, err := qr.NewEmptyMatrix(n)
	require.NoError(t, err)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			m.Set(row, col, true)
		}
	}
	d, err := qr.NewDetector(m, qr.Version{})
	require.NoError(t, err)
	return m, d
}

func centerCircle(size float64) Config {
	return Config{Enabled: true, Shape: ShapeCircle, Size: size, Mode: ModeKnockout}
}

func TestBoundsCenterPlacement(t *testing.T) {
	g := NewGeometry(21)
	b := g.Bounds(Config{Enabled: true, Shape: ShapeRect, Size: 0.2})

	assert.Equal(t, Bounds{Left: 8, Top: 8, Right: 12, Bottom: 12}, b)
	assert.Equal(t, 5, b.Width())
	assert.Equal(t, 5, b.Height())
}

func TestBoundsClippedToMatrix(t *testing.T) {
	g := NewGeometry(21)
	b := g.Bounds(Config{
		Enabled: true, Shape: ShapeRect, Size: 0.2,
		Placement: PlacementCustom, OffsetX: 0.5, OffsetY: 0.5,
	})

	assert.Equal(t, 20, b.Right)
	assert.Equal(t, 20, b.Bottom)
	assert.LessOrEqual(t, b.Left, b.Right)
	assert.LessOrEqual(t, b.Top, b.Bottom)
}

func TestBoundsCornerAndEdgePlacements(t *testing.T) {
	g := NewGeometry(21)

	corner := g.Bounds(Config{Enabled: true, Size: 0.2, Placement: PlacementCorners})
	assert.Equal(t, Bounds{Left: 15, Top: 15, Right: 19, Bottom: 19}, corner)

	edge := g.Bounds(Config{Enabled: true, Size: 0.2, Placement: PlacementEdges})
	assert.Equal(t, Bounds{Left: 8, Top: 15, Right: 12, Bottom: 19}, edge)
}

func TestIsInsideShapeContainment(t *testing.T) {
	g := NewGeometry(21)

	// (8, 13) sits inside the rect and squircle of this size but outside
	// the inscribed circle.
	rect := Config{Enabled: true, Shape: ShapeRect, Size: 0.3}
	circle := Config{Enabled: true, Shape: ShapeCircle, Size: 0.3}
	squircle := Config{Enabled: true, Shape: ShapeSquircle, Size: 0.3}

	assert.True(t, g.IsInside(8, 13, rect))
	assert.True(t, g.IsInside(8, 13, squircle))
	assert.False(t, g.IsInside(8, 13, circle))

	// The center is inside every shape.
	for _, cfg := range []Config{rect, circle, squircle} {
		assert.True(t, g.IsInside(10, 10, cfg), "shape %s", cfg.Shape)
	}
}

func TestIsInsideDisabledConfig(t *testing.T) {
	g := NewGeometry(21)
	assert.False(t, g.IsInside(10, 10, Config{Enabled: false, Size: 0.3}))
	assert.False(t, g.IsInside(10, 10, Config{Enabled: true, Size: 0}))
}

func TestIsInsideMonotonicInSize(t *testing.T) {
	g := NewGeometry(21)
	for _, shape := range []Shape{ShapeRect, ShapeCircle, ShapeSquircle} {
		small := Config{Enabled: true, Shape: shape, Size: 0.15}
		large := Config{Enabled: true, Shape: shape, Size: 0.35}
		for row := 0; row < 21; row++ {
			for col := 0; col < 21; col++ {
				if g.IsInside(row, col, small) {
					assert.True(t, g.IsInside(row, col, large),
						"(%d,%d) inside small %s but not large", row, col, shape)
				}
			}
		}
	}
}

func TestDistanceFromCenter(t *testing.T) {
	g := NewGeometry(21)
	cfg := centerCircle(0.2)

	assert.InDelta(t, 0.337, g.DistanceFromCenter(10, 10, cfg), 0.01)
	assert.Greater(t, g.DistanceFromCenter(8, 10, cfg), g.DistanceFromCenter(9, 10, cfg))
	assert.Greater(t, g.DistanceFromCenter(0, 0, cfg), 1.0)
}

func TestEdgeModuleDetection(t *testing.T) {
	g := NewGeometry(21)
	cfg := centerCircle(0.2)

	// Interior modules have all neighbors inside the reserve.
	assert.False(t, g.IsEdgeModule(10, 10, cfg, qr.ConnVonNeumann))
	// Boundary modules touch the outside.
	assert.True(t, g.IsEdgeModule(9, 10, cfg, qr.ConnVonNeumann))
	// Modules outside the reserve are never edge modules.
	assert.False(t, g.IsEdgeModule(5, 5, cfg, qr.ConnVonNeumann))
}

func TestShouldClearEdgeModule(t *testing.T) {
	g := NewGeometry(21)
	cfg := centerCircle(0.2)

	// A boundary module with mostly non-interior neighbors stays dark.
	assert.False(t, g.ShouldClearEdgeModule(9, 10, cfg, qr.ConnVonNeumann))
	// Non-edge modules never go through the rule.
	assert.False(t, g.ShouldClearEdgeModule(10, 10, cfg, qr.ConnVonNeumann))

	// Clearing implies being an edge module in the first place.
	for row := 0; row < 21; row++ {
		for col := 0; col < 21; col++ {
			if g.ShouldClearEdgeModule(row, col, cfg, qr.ConnVonNeumann) {
				assert.True(t, g.IsEdgeModule(row, col, cfg, qr.ConnVonNeumann))
			}
		}
	}
}

func TestSafeReserveSizeOrdering(t *testing.T) {
	v, err := qr.NewVersion(1)
	require.NoError(t, err)

	l := SafeReserveSize(v, qr.ErrorLevelLow)
	m := SafeReserveSize(v, qr.ErrorLevelMedium)
	q := SafeReserveSize(v, qr.ErrorLevelQuart)
	h := SafeReserveSize(v, qr.ErrorLevelHighest)

	assert.Less(t, l, m)
	assert.Less(t, m, q)
	assert.Less(t, q, h)
	assert.Greater(t, l, 0.0)
	assert.LessOrEqual(t, h, 0.5)

	assert.InDelta(t, 0.162, l, 0.01)
}

func TestSafeReserveSizeGrowsWithVersion(t *testing.T) {
	v1, _ := qr.NewVersion(1)
	v10, _ := qr.NewVersion(10)
	v40, _ := qr.NewVersion(40)

	// Structural overhead shrinks relative to area as versions grow.
	assert.Less(t, SafeReserveSize(v1, qr.ErrorLevelHighest), SafeReserveSize(v10, qr.ErrorLevelHighest))
	assert.Less(t, SafeReserveSize(v10, qr.ErrorLevelHighest), SafeReserveSize(v40, qr.ErrorLevelHighest))
	assert.LessOrEqual(t, SafeReserveSize(v40, qr.ErrorLevelHighest), 0.5)
}

func TestBoundsOverlaps(t *testing.T) {
	a := Bounds{Left: 0, Top: 0, Right: 7, Bottom: 7}
	assert.True(t, a.Overlaps(Bounds{Left: 7, Top: 7, Right: 10, Bottom: 10}))
	assert.False(t, a.Overlaps(Bounds{Left: 8, Top: 0, Right: 10, Bottom: 7}))
}
