package qr

import (
	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Module Types
// =============================================================================

// ModuleType is the structural role of a single matrix cell.
type ModuleType string

// Module types, in detection priority order. Classification is exclusive:
// every in-bounds cell gets exactly one type.
const (
	ModuleFinder          ModuleType = "finder"
	ModuleFinderInner     ModuleType = "finder_inner"
	ModuleSeparator       ModuleType = "separator"
	ModuleTiming          ModuleType = "timing"
	ModuleAlignment       ModuleType = "alignment"
	ModuleAlignmentCenter ModuleType = "alignment_center"
	ModuleFormat          ModuleType = "format"
	ModuleVersion         ModuleType = "version"
	ModuleDark            ModuleType = "dark"
	ModuleData            ModuleType = "data"
)

// IsFunctionPattern reports whether the type belongs to a structural pattern
// that must never be cleared by centerpiece processing.
func (t ModuleType) IsFunctionPattern() bool {
	return t != ModuleData
}

// =============================================================================
// Connectivity
// =============================================================================

// Connectivity selects the neighborhood used for adjacency queries.
type Connectivity int

const (
	// ConnVonNeumann uses the 4 cardinal neighbors: up, down, left, right.
	ConnVonNeumann Connectivity = iota
	// ConnMoore uses all 8 surrounding cells, including diagonals.
	ConnMoore
)

// Neighbor offsets, in fixed insertion order. Callers must not rely on a
// particular ordering beyond determinism.
var (
	vonNeumannOffsets = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	mooreOffsets      = [][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
)

func (c Connectivity) offsets() [][2]int {
	if c == ConnMoore {
		return mooreOffsets
	}
	return vonNeumannOffsets
}

// =============================================================================
// ModuleTypeProvider - Detector Capability
// =============================================================================

// ModuleTypeProvider is the capability consumed by clustering and centerpiece
// processing. Detector implements it; tests may substitute lightweight
// implementations.
type ModuleTypeProvider interface {
	// ModuleTypeAt classifies a cell, failing with an OUT_OF_BOUNDS error
	// for coordinates outside the matrix.
	ModuleTypeAt(row, col int) (ModuleType, error)

	// Neighbors returns in-bounds neighbor coordinates under the given
	// connectivity, in deterministic but otherwise unspecified order.
	Neighbors(row, col int, conn Connectivity) [][2]int

	// IsModuleActive reports whether the module at (row, col) is dark.
	IsModuleActive(row, col int) bool
}

// =============================================================================
// Detector
// =============================================================================

// Detector classifies the cells of a QR matrix into structural roles.
//
// Classification depends only on (row, col, size, version), never on module
// state, so a single detector remains valid for knocked-out or otherwise
// restyled matrices of the same geometry.
type Detector struct {
	matrix  *Matrix
	size    int
	version Version

	// alignment centers precomputed at construction
	alignCenters [][2]int
}

var _ ModuleTypeProvider = (*Detector)(nil)

// NewDetector builds a detector for the matrix. A zero version is estimated
// from the matrix size.
func NewDetector(m *Matrix, version Version) (*Detector, error) {
	if m == nil || m.Size() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "detector requires a non-empty matrix")
	}
	if version.IsZero() {
		version = EstimateVersion(m.Size())
	}
	d := &Detector{matrix: m, size: m.Size(), version: version}
	d.alignCenters = alignmentCenters(version, m.Size())
	return d, nil
}

// Version returns the version the detector classifies against.
func (d *Detector) Version() Version { return d.version }

// Size returns the matrix dimension.
func (d *Detector) Size() int { return d.size }

// ModuleTypeAt classifies (row, col), first match wins:
// finder > separator > timing > alignment > dark > format > version > data.
func (d *Detector) ModuleTypeAt(row, col int) (ModuleType, error) {
	if !d.matrix.InBounds(row, col) {
		return "", errors.New(errors.ErrCodeOutOfBounds,
			"module (%d,%d) outside %dx%d matrix", row, col, d.size, d.size)
	}

	if t, ok := d.finderType(row, col); ok {
		return t, nil
	}
	if d.isSeparator(row, col) {
		return ModuleSeparator, nil
	}
	if row == 6 || col == 6 {
		return ModuleTiming, nil
	}
	if t, ok := d.alignmentType(row, col); ok {
		return t, nil
	}
	if d.isDarkModule(row, col) {
		return ModuleDark, nil
	}
	if d.isFormat(row, col) {
		return ModuleFormat, nil
	}
	if d.isVersionInfo(row, col) {
		return ModuleVersion, nil
	}
	return ModuleData, nil
}

// Neighbors returns in-bounds neighbor coordinates.
func (d *Detector) Neighbors(row, col int, conn Connectivity) [][2]int {
	offs := conn.offsets()
	out := make([][2]int, 0, len(offs))
	for _, o := range offs {
		r, c := row+o[0], col+o[1]
		if d.matrix.InBounds(r, c) {
			out = append(out, [2]int{r, c})
		}
	}
	return out
}

// IsModuleActive reports whether the module at (row, col) is dark.
func (d *Detector) IsModuleActive(row, col int) bool {
	return d.matrix.At(row, col)
}

// =============================================================================
// Region Tests
// =============================================================================

// finderType matches the three 7×7 finder blocks; the inner 3×3 (offset 2..4
// in both axes) is finder_inner, the surrounding ring is finder.
func (d *Detector) finderType(row, col int) (ModuleType, bool) {
	anchors := [][2]int{{0, 0}, {0, d.size - 7}, {d.size - 7, 0}}
	for _, a := range anchors {
		dr, dc := row-a[0], col-a[1]
		if dr < 0 || dr > 6 || dc < 0 || dc > 6 {
			continue
		}
		if dr >= 2 && dr <= 4 && dc >= 2 && dc <= 4 {
			return ModuleFinderInner, true
		}
		return ModuleFinder, true
	}
	return "", false
}

// isSeparator matches the 1-module light border hugging each finder block.
func (d *Detector) isSeparator(row, col int) bool {
	n := d.size
	// Top-left: row 7 × cols 0..7, col 7 × rows 0..7
	if (row == 7 && col <= 7) || (col == 7 && row <= 7) {
		return true
	}
	// Top-right: row 7 × cols n-8..n-1, col n-8 × rows 0..7
	if (row == 7 && col >= n-8) || (col == n-8 && row <= 7) {
		return true
	}
	// Bottom-left: row n-8 × cols 0..7, col 7 × rows n-8..n-1
	if (row == n-8 && col <= 7) || (col == 7 && row >= n-8) {
		return true
	}
	return false
}

// alignmentType matches cells within Chebyshev distance 2 of an alignment
// center; the exact center is its own type.
func (d *Detector) alignmentType(row, col int) (ModuleType, bool) {
	for _, c := range d.alignCenters {
		dr, dc := row-c[0], col-c[1]
		if dr >= -2 && dr <= 2 && dc >= -2 && dc <= 2 {
			if dr == 0 && dc == 0 {
				return ModuleAlignmentCenter, true
			}
			return ModuleAlignment, true
		}
	}
	return "", false
}

// isDarkModule matches the single fixed dark module at (4v+9, 8).
func (d *Detector) isDarkModule(row, col int) bool {
	if d.version.Micro {
		return false
	}
	return row == 4*d.version.Number+9 && col == 8
}

// isFormat matches the two format-information strips beside the timing
// patterns: row 8 for col<9 or col≥n-8, column 8 for row<9 or row≥n-7.
func (d *Detector) isFormat(row, col int) bool {
	n := d.size
	if row == 8 && (col < 9 || col >= n-8) {
		return true
	}
	if col == 8 && (row < 9 || row >= n-7) {
		return true
	}
	return false
}

// isVersionInfo matches the two 6×3 version-information blocks present from
// version 7 upward.
func (d *Detector) isVersionInfo(row, col int) bool {
	if d.version.Micro || d.version.Number < 7 {
		return false
	}
	n := d.size
	// Top-right block: rows 0..5 × cols n-11..n-9
	if row <= 5 && col >= n-11 && col <= n-9 {
		return true
	}
	// Bottom-left block: rows n-11..n-9 × cols 0..5
	if row >= n-11 && row <= n-9 && col <= 5 {
		return true
	}
	return false
}

// =============================================================================
// Alignment Pattern Table
// =============================================================================

// alignmentCoords holds the per-version alignment pattern center coordinates
// from ISO/IEC 18004 Annex E. Version 1 and Micro QR symbols have none.
var alignmentCoords = map[int][]int{
	2:  {6, 18},
	3:  {6, 22},
	4:  {6, 26},
	5:  {6, 30},
	6:  {6, 34},
	7:  {6, 22, 38},
	8:  {6, 24, 42},
	9:  {6, 26, 46},
	10: {6, 28, 50},
	11: {6, 30, 54},
	12: {6, 32, 58},
	13: {6, 34, 62},
	14: {6, 26, 46, 66},
	15: {6, 26, 48, 70},
	16: {6, 26, 50, 74},
	17: {6, 30, 54, 78},
	18: {6, 30, 56, 82},
	19: {6, 30, 58, 86},
	20: {6, 34, 62, 90},
	21: {6, 28, 50, 72, 94},
	22: {6, 26, 50, 74, 98},
	23: {6, 30, 54, 78, 102},
	24: {6, 28, 54, 80, 106},
	25: {6, 32, 58, 84, 110},
	26: {6, 30, 58, 86, 114},
	27: {6, 34, 62, 90, 118},
	28: {6, 26, 50, 74, 98, 122},
	29: {6, 30, 54, 78, 102, 126},
	30: {6, 26, 52, 78, 104, 130},
	31: {6, 30, 56, 82, 108, 134},
	32: {6, 34, 60, 86, 112, 138},
	33: {6, 30, 58, 86, 114, 142},
	34: {6, 34, 62, 90, 118, 146},
	35: {6, 30, 54, 78, 102, 126, 150},
	36: {6, 24, 50, 76, 102, 128, 154},
	37: {6, 28, 54, 80, 106, 132, 158},
	38: {6, 32, 58, 84, 110, 136, 162},
	39: {6, 26, 54, 82, 110, 138, 166},
	40: {6, 30, 58, 86, 114, 142, 170},
}

// alignmentCenters expands the coordinate table into (row, col) centers,
// dropping the three combinations that would overlap finder patterns.
func alignmentCenters(v Version, size int) [][2]int {
	if v.Micro {
		return nil
	}
	coords, ok := alignmentCoords[v.Number]
	if !ok {
		return nil
	}
	last := size - 7
	var centers [][2]int
	for _, r := range coords {
		for _, c := range coords {
			// Skip the corners occupied by finder patterns.
			if (r == 6 && c == 6) || (r == 6 && c == last) || (r == last && c == 6) {
				continue
			}
			centers = append(centers, [2]int{r, c})
		}
	}
	return centers
}

// =============================================================================
// Weighted Neighbor Analysis
// =============================================================================

// FlowDirection tags the dominant visual flow around a module.
type FlowDirection string

const (
	FlowHorizontal FlowDirection = "horizontal"
	FlowVertical   FlowDirection = "vertical"
)

// NeighborAnalysis aggregates Moore-neighborhood activity around a module
// into a connectivity-strength score and flow components. Renderers use it to
// pick continuous shapes (pills, runs) over isolated dots.
type NeighborAnalysis struct {
	ConnectivityStrength float64       `json:"connectivity_strength"`
	HorizontalFlow       float64       `json:"horizontal_flow"`
	VerticalFlow         float64       `json:"vertical_flow"`
	FlowDirection        FlowDirection `json:"flow_direction"`
	ActiveNeighbors      int           `json:"active_neighbors"`
}

// Weights for neighbor aggregation: cardinal neighbors count full, diagonals
// are discounted.
const (
	cardinalWeight = 1.0
	diagonalWeight = 0.7
)

// flowWeights scales connectivity strength by module type: structural
// patterns flow less than data modules.
var flowWeights = map[ModuleType]float64{
	ModuleFinder:      0.5,
	ModuleFinderInner: 0.3,
	ModuleTiming:      0.8,
	ModuleData:        1.0,
	ModuleAlignment:   0.6,
	ModuleFormat:      0.7,
}

func flowWeight(t ModuleType) float64 {
	if w, ok := flowWeights[t]; ok {
		return w
	}
	return 1.0
}

// WeightedNeighborAnalysis scores the Moore neighborhood of (row, col) for a
// module of the given type. Horizontal flow sums activity of left/right
// neighbors, vertical flow of up/down; the dominant direction is horizontal
// only when horizontal flow strictly exceeds vertical.
func (d *Detector) WeightedNeighborAnalysis(row, col int, moduleType ModuleType) NeighborAnalysis {
	var (
		strength   float64
		horizontal float64
		vertical   float64
		active     int
	)

	for _, o := range mooreOffsets {
		r, c := row+o[0], col+o[1]
		if !d.matrix.InBounds(r, c) || !d.matrix.At(r, c) {
			continue
		}
		active++

		diagonal := o[0] != 0 && o[1] != 0
		if diagonal {
			strength += diagonalWeight
		} else {
			strength += cardinalWeight
			if o[0] == 0 {
				horizontal += cardinalWeight
			} else {
				vertical += cardinalWeight
			}
		}
	}

	w := flowWeight(moduleType)
	dir := FlowVertical
	if horizontal > vertical {
		dir = FlowHorizontal
	}

	return NeighborAnalysis{
		ConnectivityStrength: strength * w,
		HorizontalFlow:       horizontal * w,
		VerticalFlow:         vertical * w,
		FlowDirection:        dir,
		ActiveNeighbors:      active,
	}
}
