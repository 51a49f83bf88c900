package noise

import (
	"github.com/aquilax/go-perlin"
)

// Perlin wraps gradient noise so it can be compared with, or summed like, a
// lattice Field. Output is remapped from [-1,1] to [0,1].
type Perlin struct {
	p    *perlin.Perlin
	seed int64
}

// NewPerlin returns gradient noise with the given seed. octaves is the
// library's own internal octave count; use 1 when feeding a FractalSum.
func NewPerlin(seed int64, octaves int32) *Perlin {
	if octaves < 1 {
		octaves = 1
	}
	return &Perlin{p: perlin.NewPerlin(2.0, 2.0, octaves, seed), seed: seed}
}

// Seed returns the seed the noise was built with.
func (n *Perlin) Seed() int64 { return n.seed }

// Noise1D samples the noise at x.
func (n *Perlin) Noise1D(x float64) float64 {
	return clamp01((n.p.Noise1D(x) + 1) / 2)
}

// Noise2D samples the noise at (x, y).
func (n *Perlin) Noise2D(x, y float64) float64 {
	return clamp01((n.p.Noise2D(x, y) + 1) / 2)
}
