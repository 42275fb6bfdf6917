package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Module Shapes
// =============================================================================

// Neighbour bit flags for the 3×3 grid around a module. Connected shapes use
// these to decide which corners and edges to square off.
//
//	NTopLeft  NTop   NTopRight
//	NLeft     NSelf  NRight
//	NBotLeft  NBot   NBotRight
const (
	NTopLeft uint16 = 1 << iota
	NTop
	NTopRight
	NLeft
	NSelf
	NRight
	NBotLeft
	NBot
	NBotRight
)

// DrawContext is the pixel rectangle one module occupies plus its visual
// parameters. Zero Opacity and SizeRatio mean "unset" and render as 1.
type DrawContext struct {
	X, Y       float64 // upper-left corner
	Size       float64 // module edge length
	Neighbours uint16
	Fill       string
	Opacity    float64
	SizeRatio  float64
	Blur       float64 // blur radius in pixels
}

// ModuleShape draws one module into an SVG buffer.
type ModuleShape interface {
	// Draw renders a regular module.
	Draw(buf *bytes.Buffer, ctx DrawContext)

	// DrawFinder renders a module belonging to a finder pattern. Shapes
	// that would distort the locator fall back to solid squares here.
	DrawFinder(buf *bytes.Buffer, ctx DrawContext)
}

// Shape names accepted by ShapeByName and style files.
const (
	ShapeNameSquare    = "square"
	ShapeNameCircle    = "circle"
	ShapeNameRounded   = "rounded"
	ShapeNameSquircle  = "squircle"
	ShapeNameStar      = "star"
	ShapeNameDiamond   = "diamond"
	ShapeNameConnected = "connected"
)

// ShapeByName resolves a style-file shape name.
func ShapeByName(name string) (ModuleShape, error) {
	switch name {
	case "", ShapeNameSquare:
		return squareShape{}, nil
	case ShapeNameCircle:
		return circleShape{}, nil
	case ShapeNameRounded:
		return roundedShape{}, nil
	case ShapeNameSquircle:
		return squircleShape{}, nil
	case ShapeNameStar:
		return starShape{}, nil
	case ShapeNameDiamond:
		return diamondShape{}, nil
	case ShapeNameConnected:
		return connectedShape{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidShape, "unknown module shape %q", name)
	}
}

// ShapeNames lists the accepted shape names in display order.
func ShapeNames() []string {
	return []string{
		ShapeNameSquare, ShapeNameCircle, ShapeNameRounded, ShapeNameSquircle,
		ShapeNameStar, ShapeNameDiamond, ShapeNameConnected,
	}
}

// =============================================================================
// Geometry Helpers
// =============================================================================

// box returns the effective module rectangle after applying SizeRatio,
// shrinking toward the center.
func (c DrawContext) box() (x, y, s float64) {
	ratio := c.SizeRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	s = c.Size * ratio
	pad := (c.Size - s) / 2
	return c.X + pad, c.Y + pad, s
}

// visual emits the shared presentation attributes (fill, opacity, blur).
func (c DrawContext) visual() string {
	var b strings.Builder
	fmt.Fprintf(&b, ` fill="%s"`, c.Fill)
	if c.Opacity > 0 && c.Opacity < 1 {
		fmt.Fprintf(&b, ` fill-opacity="%s"`, fnum(c.Opacity))
	}
	if c.Blur > 0 {
		fmt.Fprintf(&b, ` style="filter:blur(%spx)"`, fnum(c.Blur))
	}
	return b.String()
}

// fnum formats a coordinate with two decimals, trimming trailing zeros.
func fnum(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

func emitRect(buf *bytes.Buffer, x, y, w, h, rx float64, c DrawContext) {
	buf.WriteString(`<rect x="` + fnum(x) + `" y="` + fnum(y) +
		`" width="` + fnum(w) + `" height="` + fnum(h) + `"`)
	if rx > 0 {
		buf.WriteString(` rx="` + fnum(rx) + `"`)
	}
	buf.WriteString(c.visual())
	buf.WriteString("/>\n")
}

// =============================================================================
// Shape Implementations
// =============================================================================

type squareShape struct{}

func (squareShape) Draw(buf *bytes.Buffer, c DrawContext) {
	x, y, s := c.box()
	emitRect(buf, x, y, s, s, 0, c)
}

func (sq squareShape) DrawFinder(buf *bytes.Buffer, c DrawContext) { sq.Draw(buf, c) }

type circleShape struct{}

func (circleShape) Draw(buf *bytes.Buffer, c DrawContext) {
	x, y, s := c.box()
	r := s / 2
	buf.WriteString(`<circle cx="` + fnum(x+r) + `" cy="` + fnum(y+r) +
		`" r="` + fnum(r) + `"`)
	buf.WriteString(c.visual())
	buf.WriteString("/>\n")
}

func (ci circleShape) DrawFinder(buf *bytes.Buffer, c DrawContext) { ci.Draw(buf, c) }

type roundedShape struct{}

func (roundedShape) Draw(buf *bytes.Buffer, c DrawContext) {
	x, y, s := c.box()
	emitRect(buf, x, y, s, s, s*0.3, c)
}

func (roundedShape) DrawFinder(buf *bytes.Buffer, c DrawContext) {
	squareShape{}.Draw(buf, c)
}

// squircleShape approximates a superellipse with four cubic segments.
type squircleShape struct{}

func (squircleShape) Draw(buf *bytes.Buffer, c DrawContext) {
	x, y, s := c.box()
	r := s / 2
	cx, cy := x+r, y+r
	// Control-point offset tuned so the curve hugs the |u|⁴+|v|⁴=1 shape.
	k := r * 0.92
	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", fnum(cx), fnum(y))
	fmt.Fprintf(&b, "C%s %s %s %s %s %s", fnum(cx+k), fnum(y), fnum(x+s), fnum(cy-k), fnum(x+s), fnum(cy))
	fmt.Fprintf(&b, "C%s %s %s %s %s %s", fnum(x+s), fnum(cy+k), fnum(cx+k), fnum(y+s), fnum(cx), fnum(y+s))
	fmt.Fprintf(&b, "C%s %s %s %s %s %s", fnum(cx-k), fnum(y+s), fnum(x), fnum(cy+k), fnum(x), fnum(cy))
	fmt.Fprintf(&b, "C%s %s %s %s %s %sZ", fnum(x), fnum(cy-k), fnum(cx-k), fnum(y), fnum(cx), fnum(y))
	buf.WriteString(`<path d="` + b.String() + `"`)
	buf.WriteString(c.visual())
	buf.WriteString("/>\n")
}

func (sq squircleShape) DrawFinder(buf *bytes.Buffer, c DrawContext) { sq.Draw(buf, c) }

type starShape struct{}

func (starShape) Draw(buf *bytes.Buffer, c DrawContext) {
	x, y, s := c.box()
	outer := s / 2
	inner := outer * 0.45
	cx, cy := x+outer, y+outer

	var pts []string
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, fnum(cx+r*math.Cos(angle))+","+fnum(cy-r*math.Sin(angle)))
	}
	buf.WriteString(`<polygon points="` + strings.Join(pts, " ") + `"`)
	buf.WriteString(c.visual())
	buf.WriteString("/>\n")
}

func (starShape) DrawFinder(buf *bytes.Buffer, c DrawContext) {
	squareShape{}.Draw(buf, c)
}

type diamondShape struct{}

func (diamondShape) Draw(buf *bytes.Buffer, c DrawContext) {
	x, y, s := c.box()
	h := s / 2
	pts := []string{
		fnum(x+h) + "," + fnum(y),
		fnum(x+s) + "," + fnum(y+h),
		fnum(x+h) + "," + fnum(y+s),
		fnum(x) + "," + fnum(y+h),
	}
	buf.WriteString(`<polygon points="` + strings.Join(pts, " ") + `"`)
	buf.WriteString(c.visual())
	buf.WriteString("/>\n")
}

func (diamondShape) DrawFinder(buf *bytes.Buffer, c DrawContext) {
	squareShape{}.Draw(buf, c)
}

// connectedShape rounds only the corners with no adjacent neighbour, so runs
// of modules fuse into continuous bars.
type connectedShape struct{}

func (connectedShape) Draw(buf *bytes.Buffer, c DrawContext) {
	// Full module rectangle; SizeRatio shrinking would open gaps between
	// connected modules, so only corner radii respond to neighbours.
	x, y, s := c.X, c.Y, c.Size
	r := s * 0.5
	n := c.Neighbours

	tl, tr, br, bl := r, r, r, r
	if n&NTop != 0 || n&NLeft != 0 {
		tl = 0
	}
	if n&NTop != 0 || n&NRight != 0 {
		tr = 0
	}
	if n&NBot != 0 || n&NRight != 0 {
		br = 0
	}
	if n&NBot != 0 || n&NLeft != 0 {
		bl = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M%s %s", fnum(x+tl), fnum(y))
	fmt.Fprintf(&b, "H%s", fnum(x+s-tr))
	if tr > 0 {
		fmt.Fprintf(&b, "Q%s %s %s %s", fnum(x+s), fnum(y), fnum(x+s), fnum(y+tr))
	}
	fmt.Fprintf(&b, "V%s", fnum(y+s-br))
	if br > 0 {
		fmt.Fprintf(&b, "Q%s %s %s %s", fnum(x+s), fnum(y+s), fnum(x+s-br), fnum(y+s))
	}
	fmt.Fprintf(&b, "H%s", fnum(x+bl))
	if bl > 0 {
		fmt.Fprintf(&b, "Q%s %s %s %s", fnum(x), fnum(y+s), fnum(x), fnum(y+s-bl))
	}
	fmt.Fprintf(&b, "V%s", fnum(y+tl))
	if tl > 0 {
		fmt.Fprintf(&b, "Q%s %s %s %s", fnum(x), fnum(y), fnum(x+tl), fnum(y))
	}
	b.WriteString("Z")

	buf.WriteString(`<path d="` + b.String() + `"`)
	buf.WriteString(c.visual())
	buf.WriteString("/>\n")
}

func (connectedShape) DrawFinder(buf *bytes.Buffer, c DrawContext) {
	squareShape{}.Draw(buf, c)
}
