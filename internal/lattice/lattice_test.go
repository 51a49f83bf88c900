package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/MeKo-Tech/latticenoise/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SizeAndRange(t *testing.T) {
	tests := []struct {
		name       string
		dimensions uint32
		dimLength  uint32
		wantSize   uint32
	}{
		{"single cell", 1, 1, 1},
		{"1D", 1, 256, 256},
		{"2D", 2, 64, 4096},
		{"3D", 3, 16, 4096},
		{"4D", 4, 8, 4096},
		{"5D", 5, 4, 1024},
		{"many axes of one", 40, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.dimensions, tt.dimLength, rng.NewSeeded(42))
			require.NoError(t, err)
			require.NotNil(t, l)

			assert.Equal(t, tt.wantSize, l.Size())
			assert.Equal(t, tt.dimensions, l.Dimensions())
			assert.Equal(t, tt.dimLength, l.DimLength())
			assert.Equal(t, int64(42), l.Seed())

			values := l.Values()
			require.Len(t, values, int(tt.wantSize))
			for i, v := range values {
				if v < 0 || v > 1 {
					t.Fatalf("sample %d = %v outside [0,1]", i, v)
				}
			}
		})
	}
}

func TestNew_InvalidArguments(t *testing.T) {
	_, err := New(0, 4, nil)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = New(2, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestNew_SizeOverflow(t *testing.T) {
	tests := []struct {
		dimensions uint32
		dimLength  uint32
	}{
		{2, 65536},          // exactly 2^32
		{3, 1626},           // just above 2^32-1
		{4, 256},            // 2^32
		{32, 3},             // 3^32
		{2, math.MaxUint32}, // widest axis
	}

	for _, tt := range tests {
		l, err := New(tt.dimensions, tt.dimLength, rng.NewSequence(0.5))
		require.Error(t, err, "%d^%d", tt.dimLength, tt.dimensions)
		assert.True(t, errors.Is(err, ErrSizeOverflow))
		assert.Nil(t, l)
	}
}

func TestSize_Boundary(t *testing.T) {
	size, err := Size(1, math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), size)

	size, err = Size(2, 65535)
	require.NoError(t, err)
	assert.Equal(t, uint32(65535*65535), size)

	_, err = Size(2, 65536)
	assert.ErrorIs(t, err, ErrSizeOverflow)
}

func TestNew_ClampsSource(t *testing.T) {
	l, err := New(1, 4, rng.NewSequence(-0.5, 1.5, math.NaN(), 0.25))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0, 0.25}, l.Values())
}

func TestNew_FillOrder(t *testing.T) {
	// Axis 0 varies fastest.
	l, err := New(2, 2, rng.NewSequence(0.1, 0.2, 0.3, 0.4))
	require.NoError(t, err)

	assert.Equal(t, 0.1, l.Value2(0, 0))
	assert.Equal(t, 0.2, l.Value2(1, 0))
	assert.Equal(t, 0.3, l.Value2(0, 1))
	assert.Equal(t, 0.4, l.Value2(1, 1))
}

func TestNew_DefaultSourceRecordsSeed(t *testing.T) {
	l, err := New(1, 8, nil)
	require.NoError(t, err)
	assert.NotZero(t, l.Seed())

	replay, err := New(1, 8, rng.NewSeeded(l.Seed()))
	require.NoError(t, err)
	assert.Equal(t, l.Values(), replay.Values())
}

func TestValues_ReturnsCopy(t *testing.T) {
	l, err := New(1, 2, rng.NewSequence(0.3, 0.6))
	require.NoError(t, err)

	v := l.Values()
	v[0] = 0.99
	assert.Equal(t, 0.3, l.Value1(0))
}

func TestValueAccessors(t *testing.T) {
	vals := make([]float64, 0, 81)
	for i := 0; i < 81; i++ {
		vals = append(vals, float64(i)/100)
	}

	l1, err := New(1, 3, rng.NewSequence(vals...))
	require.NoError(t, err)
	l2, err := New(2, 3, rng.NewSequence(vals...))
	require.NoError(t, err)
	l3, err := New(3, 3, rng.NewSequence(vals...))
	require.NoError(t, err)
	l4, err := New(4, 3, rng.NewSequence(vals...))
	require.NoError(t, err)

	assert.Equal(t, 0.02, l1.Value1(2))
	assert.Equal(t, vals[2*3+1], l2.Value2(1, 2))
	assert.Equal(t, vals[1*9+2*3+0], l3.Value3(0, 2, 1))
	assert.Equal(t, vals[2*27+1*9+0*3+2], l4.Value4(2, 0, 1, 2))

	assert.Equal(t, l3.Value3(0, 2, 1), l3.ValueN(0, 2, 1))
	assert.Equal(t, l4.Value4(2, 0, 1, 2), l4.ValueN(2, 0, 1, 2))

	idx, ok := l4.Index(2, 0, 1, 2)
	require.True(t, ok)
	assert.Equal(t, uint32(2+0+9+54), idx)
	assert.Equal(t, l4.Value4(2, 0, 1, 2), l4.At(idx))
}

func TestValueAccessors_OutOfDomain(t *testing.T) {
	l1, err := New(1, 4, rng.NewSeeded(1))
	require.NoError(t, err)
	l3, err := New(3, 4, rng.NewSeeded(1))
	require.NoError(t, err)

	// Dimension mismatch.
	for x := uint32(0); x < 8; x++ {
		for y := uint32(0); y < 8; y++ {
			assert.True(t, IsOutOfDomain(l1.Value2(x, y)))
		}
	}
	assert.True(t, IsOutOfDomain(l1.Value3(0, 0, 0)))
	assert.True(t, IsOutOfDomain(l1.Value4(0, 0, 0, 0)))
	assert.True(t, IsOutOfDomain(l3.Value1(0)))
	assert.True(t, IsOutOfDomain(l3.ValueN(0, 0)))

	// Coordinate out of range.
	assert.True(t, IsOutOfDomain(l1.Value1(4)))
	assert.True(t, IsOutOfDomain(l3.Value3(0, 4, 0)))
	assert.True(t, IsOutOfDomain(l3.ValueN(0, 0, 4)))
	assert.True(t, IsOutOfDomain(l1.At(4)))

	// Nil lattice.
	var nilLattice *Lattice
	assert.True(t, IsOutOfDomain(nilLattice.Value1(0)))

	assert.False(t, IsOutOfDomain(l1.Value1(3)))
	assert.False(t, IsOutOfDomain(math.Inf(-1)))
}
