package render

import (
	"bytes"
	"strings"
	"testing"
)

func draw(t *testing.T, shape ModuleShape, ctx DrawContext) string {
	t.Helper()
	var buf bytes.Buffer
	shape.Draw(&buf, ctx)
	return buf.String()
}

func TestShapeByName(t *testing.T) {
	for _, name := range ShapeNames() {
		if _, err := ShapeByName(name); err != nil {
			t.Errorf("ShapeByName(%q) = %v", name, err)
		}
	}
	if _, err := ShapeByName(""); err != nil {
		t.Errorf("empty name should default to square, got %v", err)
	}
	if _, err := ShapeByName("blob"); err == nil {
		t.Error("unknown shape should error")
	}
}

func TestSquareShape(t *testing.T) {
	sq, _ := ShapeByName(ShapeNameSquare)
	out := draw(t, sq, DrawContext{X: 10, Y: 20, Size: 10, Fill: "#000"})

	want := `<rect x="10" y="20" width="10" height="10" fill="#000"/>`
	if strings.TrimSpace(out) != want {
		t.Errorf("square = %s, want %s", out, want)
	}
}

func TestCircleShapeCentered(t *testing.T) {
	ci, _ := ShapeByName(ShapeNameCircle)
	out := draw(t, ci, DrawContext{X: 0, Y: 0, Size: 10, Fill: "#000"})

	for _, attr := range []string{`cx="5"`, `cy="5"`, `r="5"`} {
		if !strings.Contains(out, attr) {
			t.Errorf("circle missing %s: %s", attr, out)
		}
	}
}

func TestSizeRatioShrinksTowardCenter(t *testing.T) {
	sq, _ := ShapeByName(ShapeNameSquare)
	out := draw(t, sq, DrawContext{X: 0, Y: 0, Size: 10, SizeRatio: 0.8, Fill: "#000"})

	if !strings.Contains(out, `x="1"`) || !strings.Contains(out, `width="8"`) {
		t.Errorf("size ratio should inset the rect: %s", out)
	}
}

func TestOpacityAndBlurAttributes(t *testing.T) {
	sq, _ := ShapeByName(ShapeNameSquare)
	out := draw(t, sq, DrawContext{Size: 10, Fill: "#000", Opacity: 0.4, Blur: 0.5})

	if !strings.Contains(out, `fill-opacity="0.4"`) {
		t.Errorf("missing opacity: %s", out)
	}
	if !strings.Contains(out, `blur(0.5px)`) {
		t.Errorf("missing blur: %s", out)
	}

	// Full opacity emits no attribute.
	out = draw(t, sq, DrawContext{Size: 10, Fill: "#000", Opacity: 1})
	if strings.Contains(out, "fill-opacity") {
		t.Errorf("full opacity should be implicit: %s", out)
	}
}

func TestStarAndDiamondArePolygons(t *testing.T) {
	for _, name := range []string{ShapeNameStar, ShapeNameDiamond} {
		s, _ := ShapeByName(name)
		out := draw(t, s, DrawContext{Size: 10, Fill: "#000"})
		if !strings.Contains(out, "<polygon") {
			t.Errorf("%s should emit a polygon: %s", name, out)
		}
	}
}

func TestFinderFallbacks(t *testing.T) {
	// Shapes that would distort the locator render square finders.
	for _, name := range []string{ShapeNameStar, ShapeNameDiamond, ShapeNameConnected, ShapeNameRounded} {
		s, _ := ShapeByName(name)
		var buf bytes.Buffer
		s.DrawFinder(&buf, DrawContext{Size: 10, Fill: "#000"})
		if !strings.Contains(buf.String(), "<rect") || strings.Contains(buf.String(), "rx=") {
			t.Errorf("%s finder should be a plain rect: %s", name, buf.String())
		}
	}
}

func TestConnectedShapeCorners(t *testing.T) {
	s, _ := ShapeByName(ShapeNameConnected)

	// Isolated module: all four corners rounded.
	isolated := draw(t, s, DrawContext{Size: 10, Fill: "#000"})
	if got := strings.Count(isolated, "Q"); got != 4 {
		t.Errorf("isolated module corner curves = %d, want 4: %s", got, isolated)
	}

	// A right-hand neighbour squares off both right corners.
	joined := draw(t, s, DrawContext{Size: 10, Fill: "#000", Neighbours: NRight})
	if got := strings.Count(joined, "Q"); got != 2 {
		t.Errorf("joined module corner curves = %d, want 2: %s", got, joined)
	}

	// Fully surrounded: plain rectangle path.
	full := draw(t, s, DrawContext{Size: 10, Fill: "#000", Neighbours: NTop | NBot | NLeft | NRight})
	if strings.Contains(full, "Q") {
		t.Errorf("surrounded module should have no curves: %s", full)
	}
}

func TestFnumFormatting(t *testing.T) {
	cases := map[float64]string{
		0:      "0",
		10:     "10",
		10.5:   "10.5",
		10.25:  "10.25",
		10.204: "10.2",
		-0.001: "0",
	}
	for in, want := range cases {
		if got := fnum(in); got != want {
			t.Errorf("fnum(%v) = %s, want %s", in, got, want)
		}
	}
}
