package render

import (
	"strings"
	"testing"
)

func TestFrameByName(t *testing.T) {
	if f, err := FrameByName("none", 100, 100, 0); err != nil || f != nil {
		t.Errorf("none frame = %v, %v", f, err)
	}
	if f, err := FrameByName("", 100, 100, 0); err != nil || f != nil {
		t.Errorf("empty frame = %v, %v", f, err)
	}
	if _, err := FrameByName("hexagon", 100, 100, 0); err == nil {
		t.Error("unknown frame should error")
	}
}

func TestSquareFrame(t *testing.T) {
	f := SquareFrame{W: 100, H: 100}

	if !f.Contains(50, 50) || f.Contains(101, 50) {
		t.Error("square containment wrong")
	}
	if !f.IntersectsRect(-10, -10, 20, 20) {
		t.Error("overlapping rect should intersect")
	}
	if f.IntersectsRect(110, 0, 10, 10) {
		t.Error("outside rect should not intersect")
	}
}

func TestCircleFrame(t *testing.T) {
	f, err := FrameByName(FrameNameCircle, 100, 100, 0)
	if err != nil {
		t.Fatal(err)
	}

	if !f.Contains(50, 50) {
		t.Error("center must be inside")
	}
	// Canvas corners fall outside the inscribed circle.
	if f.Contains(2, 2) {
		t.Error("corner must be outside")
	}
	// A rect overlapping only the corner dead zone does not intersect.
	if f.IntersectsRect(0, 0, 5, 5) {
		t.Error("corner rect should be culled")
	}
	if !f.IntersectsRect(45, 0, 10, 10) {
		t.Error("top-center rect should intersect")
	}
}

func TestRoundedFrame(t *testing.T) {
	f := RoundedFrame{W: 100, H: 100, R: 20}

	if !f.Contains(50, 50) || !f.Contains(50, 1) {
		t.Error("edge midpoints must be inside")
	}
	if f.Contains(1, 1) {
		t.Error("corner tip must be outside")
	}
	if !f.Contains(20, 20) {
		t.Error("corner circle center must be inside")
	}
}

func TestFramePaths(t *testing.T) {
	square, _ := FrameByName(FrameNameSquare, 100, 100, 0)
	if got := FramePath(square); got != "M0 0H100V100H0Z" {
		t.Errorf("square path = %s", got)
	}

	circle, _ := FrameByName(FrameNameCircle, 100, 100, 0)
	if d := FramePath(circle); !strings.Contains(d, "A50 50") {
		t.Errorf("circle path = %s", d)
	}

	rounded, _ := FrameByName(FrameNameRounded, 100, 100, 15)
	d := FramePath(rounded)
	if !strings.HasPrefix(d, "M15 0") || strings.Count(d, "Q") != 4 {
		t.Errorf("rounded path = %s", d)
	}

	if FramePath(nil) != "" {
		t.Error("nil frame has no path")
	}
}
