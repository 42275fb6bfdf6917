package centerpiece

import (
	"fmt"
	"math"

	"github.com/inkqr/inkqr/pkg/errors"
	"github.com/inkqr/inkqr/pkg/qr"
)

// =============================================================================
// Validation Results
// =============================================================================

// Severity classifies a validation finding.
type Severity string

// Finding severities. Unsafe findings mean the symbol will likely not scan;
// warnings mean it probably will but with reduced margin.
const (
	SeverityWarning Severity = "warning"
	SeverityUnsafe  Severity = "unsafe"
)

// Finding is one validation observation about a centerpiece configuration.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// ValidationResult aggregates findings for one configuration. Findings are
// advisory: callers choose whether to proceed, shrink the reserve, or abort.
type ValidationResult struct {
	Safe     bool      `json:"safe"`
	Findings []Finding `json:"findings"`
}

func (r *ValidationResult) warn(code, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) unsafe(code, format string, args ...any) {
	r.Safe = false
	r.Findings = append(r.Findings, Finding{Severity: SeverityUnsafe, Code: code, Message: fmt.Sprintf(format, args...)})
}

// =============================================================================
// Validator
// =============================================================================

// Validator runs the scannability heuristics for centerpiece configurations.
type Validator struct {
	geo     *Geometry
	version qr.Version
	level   qr.ErrorLevel
}

// NewValidator builds a validator for one symbol. A zero version falls back
// to the size estimate.
func NewValidator(geo *Geometry, version qr.Version, level qr.ErrorLevel) *Validator {
	if version.IsZero() {
		version = qr.EstimateVersion(geo.size)
	}
	return &Validator{geo: geo, version: version, level: level}
}

// ValidateReserveImpact checks whether the cleared fraction of dark modules
// stays within the error-correction budget, with a safety factor held back.
// Stats from a knockout pass carry the dark-module total; hand-built stats
// without one fall back to the full module count as denominator.
func (v *Validator) ValidateReserveImpact(stats KnockoutStats) error {
	total := stats.TotalDarkModules
	if total == 0 {
		total = v.geo.size * v.geo.size
	}
	budget := v.level.RecoveryCapacity() * reserveSafetyMargin
	cleared := float64(stats.DataModulesCleared) / float64(total)
	if cleared > budget {
		return errors.New(errors.ErrCodeUnsafeReserve,
			"knockout cleared %.1f%% of dark modules, exceeding the %s-level budget of %.1f%%",
			100*cleared, v.level, 100*budget)
	}
	return nil
}

// ValidateConfig runs the heuristic checks without touching a matrix.
// Configurations rejected outright by Config.Validate never reach this point.
func (v *Validator) ValidateConfig(cfg Config) ValidationResult {
	cfg = cfg.withDefaults()
	res := ValidationResult{Safe: true}
	if !cfg.Enabled {
		return res
	}

	safe := SafeReserveSize(v.version, v.level)
	switch {
	case cfg.Size > 0.4:
		res.unsafe("SIZE_EXCESSIVE", "size %.2f consumes too much of the symbol to recover", cfg.Size)
	case cfg.Size > 0.3:
		res.warn("SIZE_LARGE", "size %.2f leaves little error-correction margin", cfg.Size)
	case cfg.Size > safe:
		res.warn("SIZE_OVER_BUDGET", "size %.2f exceeds the safe reserve %.2f for version %s level %s",
			cfg.Size, safe, v.version, v.level)
	}

	switch {
	case cfg.Margin < 0:
		res.unsafe("MARGIN_NEGATIVE", "margin %.1f would shrink the reserve below its graphic", cfg.Margin)
	case cfg.Margin > 10:
		res.warn("MARGIN_EXCESSIVE", "margin %.1f modules inflates the reserve well past the graphic", cfg.Margin)
	}

	if math.Abs(cfg.OffsetX) > 0.5 || math.Abs(cfg.OffsetY) > 0.5 {
		res.warn("OFFSET_EXTREME", "offsets (%.2f, %.2f) push the reserve partly off the symbol", cfg.OffsetX, cfg.OffsetY)
	}

	if cfg.Shape == ShapeSquircle && cfg.Size > 0.25 {
		res.warn("SQUIRCLE_LARGE", "large squircles cover nearly as much area as a full rect; consider circle")
	}

	if box, overlaps := v.finderOverlap(cfg); overlaps {
		res.unsafe("FINDER_OVERLAP", "reserve overlaps a finder pattern near (%d, %d)", box.Top, box.Left)
	}

	return res
}

// finderOverlap reports whether the reserve bounding box touches any of the
// three finder regions (finder plus its separator ring, an 8x8 block).
func (v *Validator) finderOverlap(cfg Config) (Bounds, bool) {
	n := v.geo.size
	finders := []Bounds{
		{Left: 0, Top: 0, Right: 7, Bottom: 7},
		{Left: n - 8, Top: 0, Right: n - 1, Bottom: 7},
		{Left: 0, Top: n - 8, Right: 7, Bottom: n - 1},
	}
	b := v.geo.Bounds(cfg)
	for _, f := range finders {
		if b.Overlaps(f) {
			return f, true
		}
	}
	return Bounds{}, false
}

// =============================================================================
// Pattern Preservation
// =============================================================================

// PatternPreservation reports how intact the critical locator patterns are
// after a centerpiece pass, comparing the processed matrix with the original.
type PatternPreservation struct {
	FinderIntact    bool    `json:"finder_intact"`
	TimingIntact    bool    `json:"timing_intact"`
	AlignmentIntact bool    `json:"alignment_intact"`
	FormatIntact    bool    `json:"format_intact"`
	Score           float64 `json:"score"`
}

// AnalyzePatternPreservation compares structural modules between the original
// and processed matrices. The score covers the finder and timing patterns
// only, the two the scanner cannot do without.
func (v *Validator) AnalyzePatternPreservation(original, processed *qr.Matrix, provider qr.ModuleTypeProvider) (PatternPreservation, error) {
	if original == nil || processed == nil {
		return PatternPreservation{}, errors.New(errors.ErrCodeInvalidMatrix, "pattern analysis requires both matrices")
	}
	if original.Size() != processed.Size() {
		return PatternPreservation{}, errors.New(errors.ErrCodeInvalidMatrix,
			"matrix sizes differ (%d vs %d)", original.Size(), processed.Size())
	}

	p := PatternPreservation{FinderIntact: true, TimingIntact: true, AlignmentIntact: true, FormatIntact: true}
	var criticalTotal, criticalIntact int

	n := original.Size()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			mt, err := provider.ModuleTypeAt(row, col)
			if err != nil {
				return PatternPreservation{}, err
			}
			same := original.At(row, col) == processed.At(row, col)
			switch mt {
			case qr.ModuleFinder, qr.ModuleFinderInner:
				criticalTotal++
				if same {
					criticalIntact++
				} else {
					p.FinderIntact = false
				}
			case qr.ModuleTiming:
				criticalTotal++
				if same {
					criticalIntact++
				} else {
					p.TimingIntact = false
				}
			case qr.ModuleAlignment, qr.ModuleAlignmentCenter:
				if !same {
					p.AlignmentIntact = false
				}
			case qr.ModuleFormat, qr.ModuleVersion:
				if !same {
					p.FormatIntact = false
				}
			}
		}
	}
	if criticalTotal > 0 {
		p.Score = float64(criticalIntact) / float64(criticalTotal)
	} else {
		p.Score = 1
	}
	return p, nil
}

// =============================================================================
// Scanability Assessment
// =============================================================================

// Scanability is the composite scannability estimate for a processed symbol.
// The component fields are the four weighted inputs to Score.
type Scanability struct {
	Score            float64             `json:"score"`
	PatternIntegrity float64             `json:"pattern_integrity"`
	DataPreservation float64             `json:"data_preservation"`
	VisualClarity    float64             `json:"visual_clarity"`
	ErrorTolerance   float64             `json:"error_tolerance"`
	Preservation     PatternPreservation `json:"preservation"`
	DataLossRatio    float64             `json:"data_loss_ratio"`
	RecoveryHeadway  float64             `json:"recovery_headway"`
}

// AssessScanability combines four components into a single 0..1 score:
// pattern integrity (40%), data preservation through the tier buckets (30%),
// visual clarity of the centerpiece itself (20%), and the reserve area
// against the error-correction tolerance (10%).
func (v *Validator) AssessScanability(cfg Config, stats KnockoutStats, preservation PatternPreservation) Scanability {
	cfg = cfg.withDefaults()
	n := v.geo.size
	capacity := v.level.RecoveryCapacity() * float64(n*n)

	lossRatio := 1.0
	if capacity > 0 {
		lossRatio = float64(stats.DataModulesCleared) / capacity
	}
	headway := 1 - lossRatio
	if headway < 0 {
		headway = 0
	}

	pattern := preservation.Score
	if !preservation.AlignmentIntact {
		pattern *= 0.9
	}
	if !preservation.FormatIntact {
		pattern *= 0.9
	}

	data := dataBucket(lossRatio)
	clarity := visualClarity(cfg)
	tolerance := v.errorTolerance(cfg)

	return Scanability{
		Score:            0.4*pattern + 0.3*data + 0.2*clarity + 0.1*tolerance,
		PatternIntegrity: pattern,
		DataPreservation: data,
		VisualClarity:    clarity,
		ErrorTolerance:   tolerance,
		Preservation:     preservation,
		DataLossRatio:    lossRatio,
		RecoveryHeadway:  headway,
	}
}

// visualClarity scores how legible the centerpiece graphic will be. Reserves
// too small to hold a readable graphic score low, as do oversized ones that
// crowd the symbol; squircles pay a small complexity penalty.
func visualClarity(cfg Config) float64 {
	score := 1.0
	switch {
	case cfg.Size < 0.08:
		score = 0.4
	case cfg.Size < 0.12:
		score = 0.7
	case cfg.Size > 0.3:
		score = 0.6
	}
	if cfg.Shape == ShapeSquircle {
		score -= 0.1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// errorTolerance scores the reserve area fraction against the level's
// recovery capacity. Areas inside the safety margin score full; past twice
// the capacity the component bottoms out.
func (v *Validator) errorTolerance(cfg Config) float64 {
	area := reserveAreaFraction(cfg)
	capacity := v.level.RecoveryCapacity()
	switch {
	case area <= capacity*reserveSafetyMargin:
		return 1.0
	case area <= capacity:
		return 0.6
	case area <= 2*capacity:
		return 0.3
	default:
		return 0.0
	}
}

// reserveAreaFraction estimates the fraction of the symbol the reserve
// covers, accounting for the shape.
func reserveAreaFraction(cfg Config) float64 {
	box := cfg.Size * cfg.Size
	switch cfg.Shape {
	case ShapeCircle:
		return box * math.Pi / 4
	case ShapeSquircle:
		// Superellipse with exponent 4 fills about 93% of its box.
		return box * 0.93
	default:
		return box
	}
}

// dataBucket maps the loss ratio (cleared / recovery capacity) to a coarse
// score tier. Ratios past 1.0 have exhausted the correction budget.
func dataBucket(lossRatio float64) float64 {
	switch {
	case lossRatio <= 0.2:
		return 1.0
	case lossRatio <= 0.4:
		return 0.8
	case lossRatio <= 0.6:
		return 0.6
	case lossRatio <= 0.8:
		return 0.4
	case lossRatio <= 1.0:
		return 0.2
	default:
		return 0.0
	}
}
