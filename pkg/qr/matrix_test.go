package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inkerrors "github.com/inkqr/inkqr/pkg/errors"
)

func TestNewMatrix(t *testing.T) {
	m, err := NewMatrix([][]bool{{true, false}, {false, true}})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Size())
	assert.True(t, m.At(0, 0))
	assert.False(t, m.At(0, 1))
}

func TestNewMatrix_Invalid(t *testing.T) {
	_, err := NewMatrix(nil)
	require.Error(t, err)
	assert.True(t, inkerrors.Is(err, inkerrors.ErrCodeInvalidMatrix))

	_, err = NewMatrix([][]bool{{true, false}, {true}})
	require.Error(t, err)
	assert.True(t, inkerrors.Is(err, inkerrors.ErrCodeInvalidMatrix))
}

func TestMatrixClone_Independent(t *testing.T) {
	m, err := NewEmptyMatrix(5)
	require.NoError(t, err)
	m.Set(2, 2, true)

	clone := m.Clone()
	require.True(t, clone.Equal(m))

	clone.Set(2, 2, false)
	assert.True(t, m.At(2, 2), "mutating a clone must not touch the original")
	assert.False(t, clone.Equal(m))
}

func TestMatrixAtSet_OutOfBounds(t *testing.T) {
	m, err := NewEmptyMatrix(3)
	require.NoError(t, err)

	assert.False(t, m.At(-1, 0))
	assert.False(t, m.At(0, 3))
	m.Set(5, 5, true) // ignored
	assert.Zero(t, m.CountDark())
}

func TestMatrixHash(t *testing.T) {
	a, err := NewEmptyMatrix(21)
	require.NoError(t, err)
	b := a.Clone()
	assert.Equal(t, a.Hash(), b.Hash())

	b.Set(10, 10, true)
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.Len(t, a.Hash(), 64)
}

func TestIsValidQRSize(t *testing.T) {
	for _, n := range []int{11, 13, 15, 17, 21, 25, 45, 177} {
		assert.True(t, IsValidQRSize(n), "size %d", n)
	}
	for _, n := range []int{0, 10, 12, 19, 20, 22, 178, 181} {
		assert.False(t, IsValidQRSize(n), "size %d", n)
	}
}
