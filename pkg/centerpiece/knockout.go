package centerpiece

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Knockout Processor
// =============================================================================

// knockoutWarnThreshold flags centerpieces clearing suspiciously many
// modules, usually a sign the reserve is oversized for the symbol.
const knockoutWarnThreshold = 100

// KnockoutStats summarizes one knockout pass. TotalDarkModules counts the
// dark modules of the input matrix before clearing; reserve-impact
// validation uses it as the loss denominator.
type KnockoutStats struct {
	TotalChecked              int `json:"total_checked"`
	TotalDarkModules          int `json:"total_dark_modules"`
	InCenterpiece             int `json:"in_centerpiece"`
	FunctionPatternsPreserved int `json:"function_patterns_preserved"`
	DataModulesCleared        int `json:"data_modules_cleared"`
	EdgeModulesRefined        int `json:"edge_modules_refined"`
}

// Knockout clears data modules inside a centerpiece reserve.
// It never raises on a valid (matrix, config) pair; oversized reserves are
// logged as warnings, not errors.
type Knockout struct {
	matrix   *qr.Matrix
	provider qr.ModuleTypeProvider
	geo      *Geometry
	conn     qr.Connectivity
	logger   *log.Logger
}

// NewKnockout builds a knockout processor over a borrowed matrix.
// A nil logger discards output.
func NewKnockout(m *qr.Matrix, provider qr.ModuleTypeProvider, geo *Geometry, conn qr.Connectivity, logger *log.Logger) *Knockout {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Knockout{matrix: m, provider: provider, geo: geo, conn: conn, logger: logger}
}

// Apply clears every data module inside the reserve of a copy of the matrix.
// Interior modules are cleared unconditionally; edge modules go through the
// majority refinement rule so the boundary stays smooth. Function patterns
// are never touched. The input matrix is left unchanged.
func (k *Knockout) Apply(cfg Config) (*qr.Matrix, KnockoutStats) {
	cfg = cfg.withDefaults()
	out := k.matrix.Clone()
	var stats KnockoutStats

	if !cfg.Enabled || cfg.Size <= 0 {
		return out, stats
	}
	stats.TotalDarkModules = k.matrix.CountDark()

	b := k.geo.Bounds(cfg)
	for row := b.Top; row <= b.Bottom; row++ {
		for col := b.Left; col <= b.Right; col++ {
			stats.TotalChecked++
			if !k.geo.IsInside(row, col, cfg) {
				continue
			}
			stats.InCenterpiece++

			mt, err := k.provider.ModuleTypeAt(row, col)
			if err != nil {
				continue
			}
			if mt.IsFunctionPattern() {
				stats.FunctionPatternsPreserved++
				continue
			}

			if k.geo.IsEdgeModule(row, col, cfg, k.conn) {
				stats.EdgeModulesRefined++
				if !k.geo.ShouldClearEdgeModule(row, col, cfg, k.conn) {
					continue
				}
			}
			if out.At(row, col) {
				stats.DataModulesCleared++
			}
			out.Set(row, col, false)
		}
	}

	if stats.DataModulesCleared > knockoutWarnThreshold {
		k.logger.Warn("knockout cleared an unusually large area",
			"cleared", stats.DataModulesCleared,
			"threshold", knockoutWarnThreshold,
			"size", cfg.Size)
	}
	k.logger.Debug("knockout complete",
		"checked", stats.TotalChecked,
		"in_centerpiece", stats.InCenterpiece,
		"cleared", stats.DataModulesCleared,
		"preserved", stats.FunctionPatternsPreserved,
		"edge_refined", stats.EdgeModulesRefined)

	return out, stats
}
