package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerlin_RangeAndDeterminism(t *testing.T) {
	a := NewPerlin(1337, 3)
	b := NewPerlin(1337, 3)
	assert.Equal(t, int64(1337), a.Seed())

	for _, x := range sampleXs {
		for _, y := range sampleXs {
			v := a.Noise2D(x, y)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			assert.Equal(t, v, b.Noise2D(x, y))
		}
		v := a.Noise1D(x)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestPerlin_InFractalSum(t *testing.T) {
	fs, err := NewFractalSum(DefaultOptions())
	require.NoError(t, err)

	p := NewPerlin(7, 0)
	v := fs.Normalize(fs.Sum2D(p, 1.3, 2.7))
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1.0)
}
