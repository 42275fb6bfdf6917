package centerpiece

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Imprint Processor
// =============================================================================

// Imprint warning thresholds. Treatments beyond these still render, but the
// symbol is likely hard to scan against a busy centerpiece graphic.
const (
	imprintWarnModules      = 200
	imprintWarnAreaFraction = 0.15
)

// Treatment is the visual de-emphasis computed for one module under an
// imprint centerpiece. The matrix itself is never modified; the render layer
// applies these on top of the normal module drawing.
type Treatment struct {
	Row                int           `json:"row"`
	Col                int           `json:"col"`
	Type               qr.ModuleType `json:"type"`
	Opacity            float64       `json:"opacity"`
	SizeRatio          float64       `json:"size_ratio"`
	ColorShift         float64       `json:"color_shift"`
	BlurRadius         float64       `json:"blur_radius"`
	DistanceFromCenter float64       `json:"distance_from_center"`
}

// ImprintStats summarizes one imprint pass.
type ImprintStats struct {
	TotalChecked   int     `json:"total_checked"`
	TreatedModules int     `json:"treated_modules"`
	AreaFraction   float64 `json:"area_fraction"`
}

// imprintProtected lists module types that never receive a treatment even
// when they fall inside the reserve. Softening these risks breaking the
// scanner's locator and clocking logic outright.
var imprintProtected = map[qr.ModuleType]bool{
	qr.ModuleFinder:      true,
	qr.ModuleFinderInner: true,
	qr.ModuleTiming:      true,
	qr.ModuleSeparator:   true,
	qr.ModuleDark:        true,
}

// Imprint computes visual treatments for dark modules inside a centerpiece
// reserve without touching the matrix.
type Imprint struct {
	matrix   *qr.Matrix
	provider qr.ModuleTypeProvider
	geo      *Geometry
	logger   *log.Logger
}

// NewImprint builds an imprint processor. A nil logger discards output.
func NewImprint(m *qr.Matrix, provider qr.ModuleTypeProvider, geo *Geometry, logger *log.Logger) *Imprint {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Imprint{matrix: m, provider: provider, geo: geo, logger: logger}
}

// Apply returns the treatments for every eligible dark module inside the
// reserve, ordered row-major for deterministic rendering. The returned matrix
// is a copy identical to the input.
func (im *Imprint) Apply(cfg Config) (*qr.Matrix, []Treatment, ImprintStats) {
	cfg = cfg.withDefaults()
	out := im.matrix.Clone()
	var stats ImprintStats

	if !cfg.Enabled || cfg.Size <= 0 {
		return out, nil, stats
	}

	b := im.geo.Bounds(cfg)
	var treatments []Treatment
	for row := b.Top; row <= b.Bottom; row++ {
		for col := b.Left; col <= b.Right; col++ {
			stats.TotalChecked++
			if !im.matrix.At(row, col) || !im.geo.IsInside(row, col, cfg) {
				continue
			}
			mt, err := im.provider.ModuleTypeAt(row, col)
			if err != nil || imprintProtected[mt] {
				continue
			}
			treatments = append(treatments, im.treatment(row, col, mt, cfg))
		}
	}
	sort.Slice(treatments, func(i, j int) bool {
		if treatments[i].Row != treatments[j].Row {
			return treatments[i].Row < treatments[j].Row
		}
		return treatments[i].Col < treatments[j].Col
	})

	stats.TreatedModules = len(treatments)
	n := im.matrix.Size()
	stats.AreaFraction = float64(len(treatments)) / float64(n*n)

	if stats.TreatedModules > imprintWarnModules {
		im.logger.Warn("imprint treats an unusually large module count",
			"treated", stats.TreatedModules,
			"threshold", imprintWarnModules)
	}
	if stats.AreaFraction > imprintWarnAreaFraction {
		im.logger.Warn("imprint area exceeds the recommended fraction",
			"fraction", stats.AreaFraction,
			"threshold", imprintWarnAreaFraction)
	}
	im.logger.Debug("imprint complete",
		"checked", stats.TotalChecked,
		"treated", stats.TreatedModules)

	return out, treatments, stats
}

// treatment computes the de-emphasis for one module. Larger reserves fade
// modules harder; modules near the reserve center fade less but blur more so
// the graphic reads cleanly over them.
func (im *Imprint) treatment(row, col int, mt qr.ModuleType, cfg Config) Treatment {
	dist := im.geo.DistanceFromCenter(row, col, cfg)
	if dist > 1 {
		dist = 1
	}

	opacity := baseOpacity(cfg.Size)
	// Modules toward the edge recover opacity so the reserve blends into the
	// surrounding symbol instead of ending at a hard ring.
	opacity += 0.3 * dist
	switch mt {
	case qr.ModuleFormat, qr.ModuleVersion:
		opacity += 0.2
	case qr.ModuleAlignment, qr.ModuleAlignmentCenter:
		opacity += 0.1
	}
	if opacity > 1 {
		opacity = 1
	}

	return Treatment{
		Row:                row,
		Col:                col,
		Type:               mt,
		Opacity:            opacity,
		SizeRatio:          0.95 - 0.3*cfg.Size,
		ColorShift:         0.15 * (1 - dist),
		BlurRadius:         0.5 * (1 - dist),
		DistanceFromCenter: dist,
	}
}

// baseOpacity maps the reserve size fraction to a starting opacity tier.
func baseOpacity(size float64) float64 {
	switch {
	case size <= 0.1:
		return 0.6
	case size <= 0.2:
		return 0.4
	case size <= 0.3:
		return 0.3
	default:
		return 0.2
	}
}
