package render

import (
	"math"

	"github.com/inkqr/inkqr/pkg/cluster"
	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Frames
// =============================================================================

// Frame names accepted by FrameByName and style files.
const (
	FrameNameNone    = "none"
	FrameNameSquare  = "square"
	FrameNameCircle  = "circle"
	FrameNameRounded = "rounded"
)

// FrameByName builds a clipper for a w×h pixel canvas. "none" and the empty
// string return nil, meaning no clipping.
func FrameByName(name string, w, h, radius float64) (cluster.PathClipper, error) {
	switch name {
	case "", FrameNameNone:
		return nil, nil
	case FrameNameSquare:
		return SquareFrame{W: w, H: h}, nil
	case FrameNameCircle:
		return CircleFrame{CX: w / 2, CY: h / 2, R: math.Min(w, h) / 2}, nil
	case FrameNameRounded:
		if radius <= 0 {
			radius = math.Min(w, h) * 0.1
		}
		return RoundedFrame{W: w, H: h, R: radius}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown frame %q", name)
	}
}

// SquareFrame clips to the full canvas rectangle.
type SquareFrame struct {
	W, H float64
}

// Contains implements cluster.PathClipper.
func (f SquareFrame) Contains(x, y float64) bool {
	return x >= 0 && x <= f.W && y >= 0 && y <= f.H
}

// IntersectsRect implements cluster.PathClipper.
func (f SquareFrame) IntersectsRect(x, y, w, h float64) bool {
	return x <= f.W && x+w >= 0 && y <= f.H && y+h >= 0
}

// CircleFrame clips to a circle inscribed in the canvas.
type CircleFrame struct {
	CX, CY, R float64
}

// Contains implements cluster.PathClipper.
func (f CircleFrame) Contains(x, y float64) bool {
	dx, dy := x-f.CX, y-f.CY
	return dx*dx+dy*dy <= f.R*f.R
}

// IntersectsRect reports whether the rectangle touches the circle, testing
// the circle center against the rectangle's nearest point.
func (f CircleFrame) IntersectsRect(x, y, w, h float64) bool {
	nx := math.Max(x, math.Min(f.CX, x+w))
	ny := math.Max(y, math.Min(f.CY, y+h))
	dx, dy := nx-f.CX, ny-f.CY
	return dx*dx+dy*dy <= f.R*f.R
}

// RoundedFrame clips to the canvas rectangle with rounded corners.
type RoundedFrame struct {
	W, H, R float64
}

// Contains implements cluster.PathClipper.
func (f RoundedFrame) Contains(x, y float64) bool {
	if x < 0 || x > f.W || y < 0 || y > f.H {
		return false
	}
	// Inside the straight edges unless the point falls in a corner square,
	// where the corner circle decides.
	cx := math.Min(math.Max(x, f.R), f.W-f.R)
	cy := math.Min(math.Max(y, f.R), f.H-f.R)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= f.R*f.R || (dx == 0 || dy == 0)
}

// IntersectsRect implements cluster.PathClipper. Corner precision is not
// needed for culling, so the bounding rectangle decides.
func (f RoundedFrame) IntersectsRect(x, y, w, h float64) bool {
	return x <= f.W && x+w >= 0 && y <= f.H && y+h >= 0
}

// FramePath emits the SVG path for the frame outline, or "" for nil frames.
func FramePath(c cluster.PathClipper) string {
	switch f := c.(type) {
	case SquareFrame:
		return "M0 0H" + fnum(f.W) + "V" + fnum(f.H) + "H0Z"
	case CircleFrame:
		// Two arcs covering the full circle.
		return "M" + fnum(f.CX-f.R) + " " + fnum(f.CY) +
			"A" + fnum(f.R) + " " + fnum(f.R) + " 0 1 0 " + fnum(f.CX+f.R) + " " + fnum(f.CY) +
			"A" + fnum(f.R) + " " + fnum(f.R) + " 0 1 0 " + fnum(f.CX-f.R) + " " + fnum(f.CY) + "Z"
	case RoundedFrame:
		r := f.R
		var b []byte
		b = append(b, "M"+fnum(r)+" 0"...)
		b = append(b, "H"+fnum(f.W-r)...)
		b = append(b, "Q"+fnum(f.W)+" 0 "+fnum(f.W)+" "+fnum(r)...)
		b = append(b, "V"+fnum(f.H-r)...)
		b = append(b, "Q"+fnum(f.W)+" "+fnum(f.H)+" "+fnum(f.W-r)+" "+fnum(f.H)...)
		b = append(b, "H"+fnum(r)...)
		b = append(b, "Q0 "+fnum(f.H)+" 0 "+fnum(f.H-r)...)
		b = append(b, "V"+fnum(r)...)
		b = append(b, "Q0 0 "+fnum(r)+" 0Z"...)
		return string(b)
	default:
		return ""
	}
}
