package cluster

import (
	"fmt"
	"strings"
)

// =============================================================================
// SVG Path Emission
// =============================================================================

// PathClipper restricts rendering to a frame region. Implementations live in
// the render layer; clustering only needs containment queries to cull paths
// that fall entirely outside the active frame.
type PathClipper interface {
	// Contains reports whether a pixel point lies inside the frame.
	Contains(x, y float64) bool

	// IntersectsRect reports whether any part of the pixel rectangle lies
	// inside the frame.
	IntersectsRect(x, y, w, h float64) bool
}

// SVGPath emits a path covering the cluster's bounding box at the given
// module scale and border offset. A cluster with zero roundness produces a
// plain rectangle, otherwise corners are rounded by roundness × half the
// shorter side.
//
// With a clipper, a rectangle entirely outside the active frame yields an
// empty string: the cluster is culled rather than emitted as an invalid path.
func SVGPath(c *Cluster, scale float64, border float64, clipper PathClipper) string {
	x := float64(c.BoundingBox.MinCol)*scale + border
	y := float64(c.BoundingBox.MinRow)*scale + border
	w := float64(c.BoundingBox.Width()) * scale
	h := float64(c.BoundingBox.Height()) * scale

	if clipper != nil && !clipper.IntersectsRect(x, y, w, h) {
		return ""
	}

	r := c.Hints.Roundness * min(w, h) / 2
	if r <= 0 {
		return rectPath(x, y, w, h)
	}
	return roundedRectPath(x, y, w, h, r)
}

func rectPath(x, y, w, h float64) string {
	return fmt.Sprintf("M%s %sH%sV%sH%sZ",
		f(x), f(y), f(x+w), f(y+h), f(x))
}

// roundedRectPath draws the rectangle clockwise with quadratic corner curves.
func roundedRectPath(x, y, w, h, r float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", f(x+r), f(y))
	fmt.Fprintf(&b, "H%s", f(x+w-r))
	fmt.Fprintf(&b, "Q%s %s %s %s", f(x+w), f(y), f(x+w), f(y+r))
	fmt.Fprintf(&b, "V%s", f(y+h-r))
	fmt.Fprintf(&b, "Q%s %s %s %s", f(x+w), f(y+h), f(x+w-r), f(y+h))
	fmt.Fprintf(&b, "H%s", f(x+r))
	fmt.Fprintf(&b, "Q%s %s %s %s", f(x), f(y+h), f(x), f(y+h-r))
	fmt.Fprintf(&b, "V%s", f(y+r))
	fmt.Fprintf(&b, "Q%s %s %s %sZ", f(x), f(y), f(x+r), f(y))
	return b.String()
}

// f formats a coordinate with two decimals, trimming trailing zeros so paths
// stay compact and deterministic.
func f(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
