package render

import (
	"strings"
	"testing"

	"github.com/inkqr/inkqr/pkg/centerpiece"
	"github.com/inkqr/inkqr/pkg/cluster"
	"github.com/inkqr/inkqr/pkg/qr"
)

func testMatrix(t *testing.T) (*qr.Matrix, *qr.Detector) {
	t.Helper()
	m, err := qr.NewEmptyMatrix(21)
	if err != nil {
		t.Fatal(err)
	}
	// Finder-ish corner block plus a small data region.
	for row := 0; row < 7; row++ {
		for col := 0; col < 7; col++ {
			m.Set(row, col, true)
		}
	}
	for row := 9; row < 13; row++ {
		for col := 9; col < 13; col++ {
			m.Set(row, col, true)
		}
	}
	d, err := qr.NewDetector(m, qr.Version{})
	if err != nil {
		t.Fatal(err)
	}
	return m, d
}

func TestRenderSVGDocumentShape(t *testing.T) {
	m, d := testMatrix(t)

	out, err := RenderSVG(m, WithProvider(d))
	if err != nil {
		t.Fatal(err)
	}
	svg := string(out)

	// 21 modules + 2×4 border at 10px per module.
	if !strings.Contains(svg, `viewBox="0 0 290 290"`) {
		t.Errorf("viewBox wrong: %s", svg[:120])
	}
	if !strings.HasPrefix(svg, "<svg xmlns=") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("document not well-formed")
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("background missing")
	}
	if !strings.Contains(svg, "<rect") {
		t.Error("no modules rendered")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	m, d := testMatrix(t)

	a, err := RenderSVG(m, WithProvider(d))
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderSVG(m, WithProvider(d))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("output must be deterministic")
	}
}

func TestRenderSVGFinderColor(t *testing.T) {
	m, d := testMatrix(t)
	style := DefaultStyle()
	style.FinderColor = "#ff0000"

	out, err := RenderSVG(m, WithProvider(d), WithStyle(style))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `fill="#ff0000"`) {
		t.Error("finder color not applied")
	}
	if !strings.Contains(string(out), `fill="#000000"`) {
		t.Error("data modules must keep the foreground color")
	}
}

func TestRenderSVGUnifiedCluster(t *testing.T) {
	m, d := testMatrix(t)

	an := cluster.NewAnalyzer(cluster.DefaultConfig())
	clusters, err := an.Process(m, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) == 0 {
		t.Fatal("expected at least one cluster")
	}

	withClusters, err := RenderSVG(m, WithProvider(d), WithClusters(clusters))
	if err != nil {
		t.Fatal(err)
	}
	without, err := RenderSVG(m, WithProvider(d))
	if err != nil {
		t.Fatal(err)
	}

	// The dense 4×4 block renders as one path, shrinking the document.
	if !strings.Contains(string(withClusters), "<path") {
		t.Error("unified cluster path missing")
	}
	if len(withClusters) >= len(without) {
		t.Error("unified rendering should emit fewer elements")
	}
}

func TestRenderSVGTreatments(t *testing.T) {
	m, d := testMatrix(t)
	treatments := []centerpiece.Treatment{
		{Row: 10, Col: 10, Opacity: 0.4, SizeRatio: 0.9, BlurRadius: 0.3},
	}

	out, err := RenderSVG(m, WithProvider(d), WithTreatments(treatments))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `fill-opacity="0.4"`) {
		t.Error("treatment opacity not applied")
	}
}

func TestRenderSVGCircleFrameCullsCorners(t *testing.T) {
	m, d := testMatrix(t)

	// Without a quiet zone the corner finder modules fall outside the
	// inscribed circle; with the default border everything fits inside.
	style := DefaultStyle()
	style.Border = 0
	style.Frame.Shape = FrameNameCircle

	framed, err := RenderSVG(m, WithProvider(d), WithStyle(style))
	if err != nil {
		t.Fatal(err)
	}

	noFrame := DefaultStyle()
	noFrame.Border = 0
	plain, err := RenderSVG(m, WithProvider(d), WithStyle(noFrame))
	if err != nil {
		t.Fatal(err)
	}

	corner := `<rect x="0" y="0"`
	if !strings.Contains(string(plain), corner) {
		t.Fatal("unframed output should draw the corner module")
	}
	if strings.Contains(string(framed), corner) {
		t.Error("circle frame should cull the corner module")
	}
	if len(framed) >= len(plain) {
		t.Error("culling should shrink the framed document")
	}
}

func TestRenderSVGInvalidStyle(t *testing.T) {
	m, _ := testMatrix(t)
	style := DefaultStyle()
	style.Shape = "blob"

	if _, err := RenderSVG(m, WithStyle(style)); err == nil {
		t.Error("invalid shape must fail")
	}
}
