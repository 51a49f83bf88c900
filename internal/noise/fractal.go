package noise

import (
	"errors"
	"fmt"
	"math"

	"github.com/MeKo-Tech/latticenoise/internal/lattice"
)

var (
	// ErrInvalidOctaves is returned for an octave count below one.
	ErrInvalidOctaves = errors.New("fractal sum needs at least one octave")
	// ErrDimensionMismatch is returned when a lattice does not match the
	// dimensionality of the requested sum.
	ErrDimensionMismatch = errors.New("lattice dimensionality does not match noise field")
)

// Options configures a fractal sum.
type Options struct {
	Octaves        int     // number of octaves, >= 1
	AmplitudeRatio float64 // amplitude multiplier between octaves
	FrequencyRatio float64 // frequency multiplier between octaves
	Offset         float64 // added to the sum
}

// DefaultOptions returns four octaves, each at half the amplitude and twice
// the frequency of the previous one.
func DefaultOptions() Options {
	return Options{
		Octaves:        4,
		AmplitudeRatio: 0.5,
		FrequencyRatio: 2.0,
		Offset:         0.0,
	}
}

// Validate checks the options before any sampling happens.
func (o Options) Validate() error {
	if o.Octaves < 1 {
		return fmt.Errorf("octaves=%d: %w", o.Octaves, ErrInvalidOctaves)
	}
	return nil
}

// MaxValue returns the sum of all octave amplitudes, i.e. the fractal sum of
// a field that is 1.0 everywhere (ignoring Offset). It is the exact geometric
// series (1 - r^n) / (1 - r), or n when r == 1.
func MaxValue(o Options) float64 {
	r := o.AmplitudeRatio
	if r == 1.0 {
		return float64(o.Octaves)
	}
	return (1 - math.Pow(r, float64(o.Octaves))) / (1 - r)
}

// FractalSum adds a sampler to itself at increasing frequencies and
// decreasing amplitudes.
type FractalSum struct {
	opts     Options
	maxValue float64
}

// NewFractalSum validates opts and returns a reusable sum.
func NewFractalSum(opts Options) (*FractalSum, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &FractalSum{opts: opts, maxValue: MaxValue(opts)}, nil
}

// Options returns the options the sum was built with.
func (fs *FractalSum) Options() Options { return fs.opts }

// MaxValue returns MaxValue(fs.Options()).
func (fs *FractalSum) MaxValue() float64 { return fs.maxValue }

// Sum1D evaluates the sum over a 1D sampler.
func (fs *FractalSum) Sum1D(s Sampler1D, x float64) float64 {
	result := fs.opts.Offset
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < fs.opts.Octaves; i++ {
		result += amplitude * s.Noise1D(frequency*x)
		amplitude *= fs.opts.AmplitudeRatio
		frequency *= fs.opts.FrequencyRatio
	}
	return result
}

// Sum2D evaluates the sum over a 2D sampler.
func (fs *FractalSum) Sum2D(s Sampler2D, x, y float64) float64 {
	result := fs.opts.Offset
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < fs.opts.Octaves; i++ {
		result += amplitude * s.Noise2D(frequency*x, frequency*y)
		amplitude *= fs.opts.AmplitudeRatio
		frequency *= fs.opts.FrequencyRatio
	}
	return result
}

// Normalize divides a sum by MaxValue and clamps it to [0,1].
func (fs *FractalSum) Normalize(v float64) float64 {
	if fs.maxValue <= 0 {
		return clamp01(v)
	}
	return clamp01(v / fs.maxValue)
}

// FSum1D evaluates a fractal sum of the default 1D field over l.
func FSum1D(l *lattice.Lattice, x float64, opts Options) (float64, error) {
	fs, err := newLatticeSum(l, 1, opts)
	if err != nil {
		return 0, err
	}
	return fs.Sum1D(New(l), x), nil
}

// FSum2D evaluates a fractal sum of the default 2D field over l.
func FSum2D(l *lattice.Lattice, x, y float64, opts Options) (float64, error) {
	fs, err := newLatticeSum(l, 2, opts)
	if err != nil {
		return 0, err
	}
	return fs.Sum2D(New(l), x, y), nil
}

func newLatticeSum(l *lattice.Lattice, dims uint32, opts Options) (*FractalSum, error) {
	fs, err := NewFractalSum(opts)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("nil lattice: %w", ErrDimensionMismatch)
	}
	if l.Dimensions() != dims {
		return nil, fmt.Errorf("%dD sum over %dD lattice: %w", dims, l.Dimensions(), ErrDimensionMismatch)
	}
	return fs, nil
}
