package render

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/inkqr/inkqr/pkg/centerpiece"
	"github.com/inkqr/inkqr/pkg/cluster"
	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// SVG Assembly
// =============================================================================

// SVGOption configures one rendering pass.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      StyleConfig
	provider   qr.ModuleTypeProvider
	clusters   []*cluster.Cluster
	treatments []centerpiece.Treatment
}

// WithStyle sets the full style configuration.
func WithStyle(s StyleConfig) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithProvider supplies module classification, enabling finder styling and
// imprint treatment routing. Without a provider every module renders as data.
func WithProvider(p qr.ModuleTypeProvider) SVGOption {
	return func(r *svgRenderer) { r.provider = p }
}

// WithClusters supplies analysis results; clusters hinted as single shapes
// render as one unified path instead of per-module shapes.
func WithClusters(cs []*cluster.Cluster) SVGOption {
	return func(r *svgRenderer) { r.clusters = cs }
}

// WithTreatments applies imprint visual treatments to their modules.
func WithTreatments(ts []centerpiece.Treatment) SVGOption {
	return func(r *svgRenderer) { r.treatments = ts }
}

// RenderSVG assembles the complete SVG document for a matrix. Output is
// deterministic: modules emit row-major, clusters sort by bounding box.
func RenderSVG(m *qr.Matrix, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{style: DefaultStyle()}
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.style.Validate(); err != nil {
		return nil, err
	}

	shape, err := ShapeByName(r.style.Shape)
	if err != nil {
		return nil, err
	}

	n := m.Size()
	scale := r.style.ModuleSize
	border := float64(r.style.Border) * scale
	canvas := float64(n)*scale + 2*border

	frame, err := FrameByName(r.style.Frame.Shape, canvas, canvas, r.style.Frame.Radius)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		fnum(canvas), fnum(canvas), fnum(canvas), fnum(canvas))

	r.renderBackground(&buf, canvas, frame)

	unified, covered := r.unifiedClusters()
	for _, c := range unified {
		if d := cluster.SVGPath(c, scale, border, frame); d != "" {
			fmt.Fprintf(&buf, `<path d="%s" fill="%s"/>`+"\n", d, r.style.Foreground)
		}
	}

	treatments := r.treatmentIndex()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if !m.At(row, col) || covered[[2]int{row, col}] {
				continue
			}
			x := border + float64(col)*scale
			y := border + float64(row)*scale
			if frame != nil && !frame.IntersectsRect(x, y, scale, scale) {
				continue
			}

			ctx := DrawContext{
				X: x, Y: y, Size: scale,
				Neighbours: neighbourMask(m, row, col),
				Fill:       r.style.Foreground,
			}
			if t, ok := treatments[[2]int{row, col}]; ok {
				ctx.Opacity = t.Opacity
				ctx.SizeRatio = t.SizeRatio
				ctx.Blur = t.BlurRadius
			}

			if r.isFinder(row, col) {
				ctx.Fill = r.style.finder()
				shape.DrawFinder(&buf, ctx)
			} else {
				shape.Draw(&buf, ctx)
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func (r *svgRenderer) renderBackground(buf *bytes.Buffer, canvas float64, frame cluster.PathClipper) {
	if frame != nil {
		if d := FramePath(frame); d != "" {
			fmt.Fprintf(buf, `<path d="%s" fill="%s"/>`+"\n", d, r.style.Background)
			return
		}
	}
	fmt.Fprintf(buf, `<rect width="%s" height="%s" fill="%s"/>`+"\n",
		fnum(canvas), fnum(canvas), r.style.Background)
}

// unifiedClusters returns clusters to draw as single paths, sorted for
// deterministic output, plus the set of module positions they cover.
func (r *svgRenderer) unifiedClusters() ([]*cluster.Cluster, map[[2]int]bool) {
	var unified []*cluster.Cluster
	covered := make(map[[2]int]bool)
	for _, c := range r.clusters {
		if c == nil || !c.Hints.RenderAsSingleShape {
			continue
		}
		unified = append(unified, c)
		for _, p := range c.Positions {
			covered[p] = true
		}
	}
	slices.SortFunc(unified, func(a, b *cluster.Cluster) int {
		if v := cmp.Compare(a.BoundingBox.MinRow, b.BoundingBox.MinRow); v != 0 {
			return v
		}
		return cmp.Compare(a.BoundingBox.MinCol, b.BoundingBox.MinCol)
	})
	return unified, covered
}

func (r *svgRenderer) treatmentIndex() map[[2]int]centerpiece.Treatment {
	if len(r.treatments) == 0 {
		return nil
	}
	idx := make(map[[2]int]centerpiece.Treatment, len(r.treatments))
	for _, t := range r.treatments {
		idx[[2]int{t.Row, t.Col}] = t
	}
	return idx
}

func (r *svgRenderer) isFinder(row, col int) bool {
	if r.provider == nil {
		return false
	}
	mt, err := r.provider.ModuleTypeAt(row, col)
	if err != nil {
		return false
	}
	return mt == qr.ModuleFinder || mt == qr.ModuleFinderInner
}

// neighbourMask builds the 8-neighbour bitmask for connected shapes.
func neighbourMask(m *qr.Matrix, row, col int) uint16 {
	var mask uint16
	bits := []struct {
		dr, dc int
		bit    uint16
	}{
		{-1, -1, NTopLeft}, {-1, 0, NTop}, {-1, 1, NTopRight},
		{0, -1, NLeft}, {0, 0, NSelf}, {0, 1, NRight},
		{1, -1, NBotLeft}, {1, 0, NBot}, {1, 1, NBotRight},
	}
	for _, b := range bits {
		if m.At(row+b.dr, col+b.dc) {
			mask |= b.bit
		}
	}
	return mask
}
