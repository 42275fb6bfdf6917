package cluster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// rectClipper keeps everything inside a fixed pixel rectangle.
type rectClipper struct {
	x, y, w, h float64
}

func (r rectClipper) Contains(x, y float64) bool {
	return x >= r.x && x <= r.x+r.w && y >= r.y && y <= r.y+r.h
}

func (r rectClipper) IntersectsRect(x, y, w, h float64) bool {
	return x < r.x+r.w && x+w > r.x && y < r.y+r.h && y+h > r.y
}

func TestSVGPath_PlainRectangle(t *testing.T) {
	c := clusterOf([2]int{0, 0}, [2]int{0, 1}, [2]int{1, 0}, [2]int{1, 1})
	c.Hints.Roundness = 0

	path := SVGPath(c, 10, 0, nil)
	assert.Equal(t, "M0 0H20V20H0Z", path)
}

func TestSVGPath_Rounded(t *testing.T) {
	c := clusterOf([2]int{2, 3}, [2]int{2, 4}, [2]int{3, 3}, [2]int{3, 4})
	c.Hints.Roundness = 0.5

	path := SVGPath(c, 10, 5, nil)
	assert.True(t, strings.HasPrefix(path, "M"), "path must start with a move")
	assert.True(t, strings.HasSuffix(path, "Z"), "path must close")
	assert.Contains(t, path, "Q", "rounded path uses quadratic corners")
}

func TestSVGPath_BorderOffset(t *testing.T) {
	c := clusterOf([2]int{1, 1})
	c.Hints.Roundness = 0

	path := SVGPath(c, 10, 40, nil)
	assert.Equal(t, "M50 50H60V60H50Z", path)
}

func TestSVGPath_ClipperCulling(t *testing.T) {
	c := clusterOf([2]int{0, 0}, [2]int{0, 1})
	c.Hints.Roundness = 0

	// Frame far away from the cluster: fully culled.
	outside := rectClipper{x: 1000, y: 1000, w: 100, h: 100}
	assert.Empty(t, SVGPath(c, 10, 0, outside))

	// Overlapping frame: path survives.
	overlap := rectClipper{x: 0, y: 0, w: 15, h: 15}
	assert.NotEmpty(t, SVGPath(c, 10, 0, overlap))
}

func TestCoordinateFormatting(t *testing.T) {
	assert.Equal(t, "10", f(10.0))
	assert.Equal(t, "10.5", f(10.50))
	assert.Equal(t, "10.25", f(10.251))
	assert.Equal(t, "0", f(0.0))
	assert.Equal(t, "0", f(-0.001))
}
