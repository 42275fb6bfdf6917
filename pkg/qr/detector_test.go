package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inkerrors "github.com/inkqr/inkqr/pkg/errors"
)

func allDarkMatrix(t *testing.T, size int) *Matrix {
	t.Helper()
	cells := make([][]bool, size)
	for i := range cells {
		cells[i] = make([]bool, size)
		for j := range cells[i] {
			cells[i][j] = true
		}
	}
	m, err := NewMatrix(cells)
	require.NoError(t, err)
	return m
}

func TestModuleTypeAt_Version1Landmarks(t *testing.T) {
	m := allDarkMatrix(t, 21)
	det, err := NewDetector(m, Version{Number: 1})
	require.NoError(t, err)

	cases := []struct {
		row, col int
		want     ModuleType
	}{
		{0, 0, ModuleFinder},
		{3, 3, ModuleFinderInner},
		{0, 14, ModuleFinder},      // top-right finder
		{14, 0, ModuleFinder},      // bottom-left finder
		{16, 2, ModuleFinderInner}, // bottom-left inner
		{7, 0, ModuleSeparator},
		{7, 7, ModuleSeparator},
		{0, 13, ModuleSeparator}, // col n-8 beside top-right finder
		{13, 0, ModuleSeparator}, // row n-8 above bottom-left finder
		{6, 8, ModuleTiming},
		{8, 6, ModuleTiming},
		{13, 8, ModuleDark}, // 4*1+9 = 13
		{8, 0, ModuleFormat},
		{8, 20, ModuleFormat},
		{0, 8, ModuleFormat},
		{20, 8, ModuleFormat},
		{9, 9, ModuleData},
		{20, 20, ModuleData},
	}
	for _, tc := range cases {
		got, err := det.ModuleTypeAt(tc.row, tc.col)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "module (%d,%d)", tc.row, tc.col)
	}
}

func TestModuleTypeAt_OutOfBounds(t *testing.T) {
	det, err := NewDetector(allDarkMatrix(t, 21), Version{Number: 1})
	require.NoError(t, err)

	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {21, 0}, {0, 21}, {100, 100}} {
		_, err := det.ModuleTypeAt(rc[0], rc[1])
		require.Error(t, err, "module (%d,%d)", rc[0], rc[1])
		assert.True(t, inkerrors.Is(err, inkerrors.ErrCodeOutOfBounds))
	}
}

// Classification must be total and exclusive: every in-bounds cell gets
// exactly one type, for a spread of versions.
func TestModuleTypeAt_Totality(t *testing.T) {
	for _, v := range []int{1, 2, 6, 7, 14, 25, 40} {
		version := Version{Number: v}
		size := version.Size()
		det, err := NewDetector(allDarkMatrix(t, size), version)
		require.NoError(t, err)

		counts := map[ModuleType]int{}
		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				mt, err := det.ModuleTypeAt(r, c)
				require.NoError(t, err, "version %d cell (%d,%d)", v, r, c)
				counts[mt]++
			}
		}

		total := 0
		for _, n := range counts {
			total += n
		}
		assert.Equal(t, size*size, total, "version %d", v)

		// Fixed-size structural regions.
		assert.Equal(t, 3*(49-9), counts[ModuleFinder], "version %d finder ring", v)
		assert.Equal(t, 3*9, counts[ModuleFinderInner], "version %d finder inner", v)
		assert.Equal(t, 1, counts[ModuleDark], "version %d dark module", v)
		if v >= 7 {
			assert.Equal(t, 36, counts[ModuleVersion], "version %d version info", v)
		} else {
			assert.Zero(t, counts[ModuleVersion], "version %d version info", v)
		}
	}
}

func TestAlignmentPatterns(t *testing.T) {
	// Version 1 has no alignment patterns.
	det1, err := NewDetector(allDarkMatrix(t, 21), Version{Number: 1})
	require.NoError(t, err)
	mt, err := det1.ModuleTypeAt(18, 18)
	require.NoError(t, err)
	assert.Equal(t, ModuleData, mt)

	// Version 2 has a single pattern centered at (18,18) = (n-7,n-7).
	det2, err := NewDetector(allDarkMatrix(t, 25), Version{Number: 2})
	require.NoError(t, err)

	mt, err = det2.ModuleTypeAt(18, 18)
	require.NoError(t, err)
	assert.Equal(t, ModuleAlignmentCenter, mt)

	mt, err = det2.ModuleTypeAt(16, 18)
	require.NoError(t, err)
	assert.Equal(t, ModuleAlignment, mt)

	mt, err = det2.ModuleTypeAt(18, 16)
	require.NoError(t, err)
	assert.Equal(t, ModuleAlignment, mt)

	// Just outside the 5×5 block.
	mt, err = det2.ModuleTypeAt(15, 18)
	require.NoError(t, err)
	assert.Equal(t, ModuleData, mt)
}

func TestAlignmentPatterns_Version7(t *testing.T) {
	// Version 7 coordinates {6,22,38}: six centers after dropping the three
	// finder-overlapping corners.
	version := Version{Number: 7}
	det, err := NewDetector(allDarkMatrix(t, version.Size()), version)
	require.NoError(t, err)

	for _, c := range [][2]int{{22, 22}, {22, 38}, {38, 22}, {38, 38}} {
		mt, err := det.ModuleTypeAt(c[0], c[1])
		require.NoError(t, err)
		assert.Equal(t, ModuleAlignmentCenter, mt, "center (%d,%d)", c[0], c[1])
	}

	// Centers sitting on row or column 6 are claimed by the timing strips,
	// which come first in the classification order.
	for _, c := range [][2]int{{6, 22}, {22, 6}} {
		mt, err := det.ModuleTypeAt(c[0], c[1])
		require.NoError(t, err)
		assert.Equal(t, ModuleTiming, mt, "center (%d,%d)", c[0], c[1])
	}

	// Corners overlapping finders must not become alignment patterns.
	mt, err := det.ModuleTypeAt(3, 3)
	require.NoError(t, err)
	assert.Equal(t, ModuleFinderInner, mt)
}

func TestNeighbors(t *testing.T) {
	det, err := NewDetector(allDarkMatrix(t, 21), Version{Number: 1})
	require.NoError(t, err)

	assert.Len(t, det.Neighbors(10, 10, ConnVonNeumann), 4)
	assert.Len(t, det.Neighbors(10, 10, ConnMoore), 8)
	assert.Len(t, det.Neighbors(0, 0, ConnVonNeumann), 2)
	assert.Len(t, det.Neighbors(0, 0, ConnMoore), 3)
	assert.Len(t, det.Neighbors(0, 10, ConnVonNeumann), 3)
	assert.Len(t, det.Neighbors(0, 10, ConnMoore), 5)

	// Determinism: two calls agree exactly.
	assert.Equal(t, det.Neighbors(5, 5, ConnMoore), det.Neighbors(5, 5, ConnMoore))
}

func TestWeightedNeighborAnalysis(t *testing.T) {
	// A single horizontal run of three modules.
	m, err := NewEmptyMatrix(21)
	require.NoError(t, err)
	m.Set(10, 9, true)
	m.Set(10, 10, true)
	m.Set(10, 11, true)

	det, err := NewDetector(m, Version{Number: 1})
	require.NoError(t, err)

	a := det.WeightedNeighborAnalysis(10, 10, ModuleData)
	assert.Equal(t, 2, a.ActiveNeighbors)
	assert.Equal(t, FlowHorizontal, a.FlowDirection)
	assert.InDelta(t, 2.0, a.ConnectivityStrength, 1e-9) // two cardinal neighbors, data weight 1.0
	assert.InDelta(t, 2.0, a.HorizontalFlow, 1e-9)
	assert.Zero(t, a.VerticalFlow)

	// Type-specific flow weight scales the score down for structural modules.
	f := det.WeightedNeighborAnalysis(10, 10, ModuleFinder)
	assert.InDelta(t, 1.0, f.ConnectivityStrength, 1e-9)

	// No horizontal dominance means vertical.
	lone := det.WeightedNeighborAnalysis(5, 5, ModuleData)
	assert.Equal(t, FlowVertical, lone.FlowDirection)
	assert.Zero(t, lone.ConnectivityStrength)
}

func TestWeightedNeighborAnalysis_DiagonalWeight(t *testing.T) {
	m, err := NewEmptyMatrix(21)
	require.NoError(t, err)
	m.Set(9, 9, true) // diagonal of (10,10)

	det, err := NewDetector(m, Version{Number: 1})
	require.NoError(t, err)

	a := det.WeightedNeighborAnalysis(10, 10, ModuleData)
	assert.InDelta(t, 0.7, a.ConnectivityStrength, 1e-9)
	assert.Zero(t, a.HorizontalFlow)
	assert.Zero(t, a.VerticalFlow)
}
