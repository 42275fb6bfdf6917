package qr

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/inkqr/inkqr/pkg/errors"
)

// =============================================================================
// Matrix - Boolean Module Grid
// =============================================================================

// Matrix is an N×N grid of QR modules, true meaning dark/active.
//
// A Matrix is treated as borrowed, read-only input by every component in this
// module; operations that modify module state (knockout) clone first and
// return the copy. Rows are stored row-major: cells[row][col].
type Matrix struct {
	cells [][]bool
	size  int
}

// NewMatrix validates and wraps a boolean grid.
// The grid must be non-empty and square; rows are not copied, so the caller
// must not mutate them after construction.
func NewMatrix(cells [][]bool) (*Matrix, error) {
	if len(cells) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix must have at least one row")
	}
	n := len(cells)
	for i, row := range cells {
		if len(row) != n {
			return nil, errors.New(errors.ErrCodeInvalidMatrix,
				"matrix must be square: row %d has %d cells, want %d", i, len(row), n)
		}
	}
	return &Matrix{cells: cells, size: n}, nil
}

// NewEmptyMatrix allocates an all-light matrix of the given size.
func NewEmptyMatrix(size int) (*Matrix, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix size must be positive, got %d", size)
	}
	cells := make([][]bool, size)
	for i := range cells {
		cells[i] = make([]bool, size)
	}
	return &Matrix{cells: cells, size: size}, nil
}

// Size returns the matrix dimension N.
func (m *Matrix) Size() int { return m.size }

// InBounds reports whether (row, col) lies inside the matrix.
func (m *Matrix) InBounds(row, col int) bool {
	return row >= 0 && row < m.size && col >= 0 && col < m.size
}

// At returns the module state at (row, col).
// Out-of-bounds coordinates report false rather than panicking; callers that
// need hard bounds errors go through Detector.ModuleTypeAt.
func (m *Matrix) At(row, col int) bool {
	if !m.InBounds(row, col) {
		return false
	}
	return m.cells[row][col]
}

// Set updates the module state at (row, col). Out-of-bounds writes are
// ignored. Set exists for matrix construction and for processors operating on
// their own clones; shared matrices must never be mutated.
func (m *Matrix) Set(row, col int, dark bool) {
	if !m.InBounds(row, col) {
		return
	}
	m.cells[row][col] = dark
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	cells := make([][]bool, m.size)
	for i, row := range m.cells {
		cells[i] = make([]bool, m.size)
		copy(cells[i], row)
	}
	return &Matrix{cells: cells, size: m.size}
}

// Equal reports whether two matrices have identical size and module states.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil || m.size != other.size {
		return false
	}
	for r := 0; r < m.size; r++ {
		for c := 0; c < m.size; c++ {
			if m.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// CountDark returns the number of dark modules.
func (m *Matrix) CountDark() int {
	n := 0
	for _, row := range m.cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Hash returns a SHA-256 content hash of the matrix, usable as a cache key
// component. Equal matrices always hash identically.
func (m *Matrix) Hash() string {
	h := sha256.New()
	buf := make([]byte, m.size)
	for _, row := range m.cells {
		for i, v := range row {
			if v {
				buf[i] = 1
			} else {
				buf[i] = 0
			}
		}
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// validSizes for Micro QR symbols.
var microSizes = map[int]bool{11: true, 13: true, 15: true, 17: true}

// IsValidQRSize reports whether n is a legal QR matrix dimension:
// 21+4k for regular versions 1..40, or one of {11,13,15,17} for Micro QR.
func IsValidQRSize(n int) bool {
	if microSizes[n] {
		return true
	}
	return n >= 21 && n <= 177 && (n-21)%4 == 0
}
