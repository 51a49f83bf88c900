// Package noise turns a lattice into continuous, infinitely repeating noise
// and composes it into multi-octave fractal sums.
package noise

import (
	"math"

	"github.com/MeKo-Tech/latticenoise/internal/interp"
	"github.com/MeKo-Tech/latticenoise/internal/lattice"
)

// Sampler1D is a continuous 1D noise function.
type Sampler1D interface {
	Noise1D(x float64) float64
}

// Sampler2D is a continuous 2D noise function.
type Sampler2D interface {
	Noise2D(x, y float64) float64
}

// Field interpolates a lattice into a continuous noise function. The lattice
// repeats every DimLength units along each axis.
//
// A Field holds no mutable state and may be queried from many goroutines.
type Field struct {
	lat    *lattice.Lattice
	scheme interp.Scheme
	wrap   lattice.WrapMode
}

// Option configures a Field.
type Option func(*Field)

// WithScheme selects the interpolation spline. The default is Catmull-Rom.
func WithScheme(s interp.Scheme) Option {
	return func(f *Field) { f.scheme = s }
}

// WithWrapMode selects how negative coordinates are handled. The default,
// lattice.WrapMirror, makes the field symmetric around zero.
func WithWrapMode(m lattice.WrapMode) Option {
	return func(f *Field) { f.wrap = m }
}

// New returns a field over l.
func New(l *lattice.Lattice, opts ...Option) *Field {
	f := &Field{lat: l, scheme: interp.SchemeCatmullRom, wrap: lattice.WrapMirror}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Lattice returns the underlying lattice.
func (f *Field) Lattice() *lattice.Lattice { return f.lat }

// Scheme returns the interpolation scheme in use.
func (f *Field) Scheme() interp.Scheme { return f.scheme }

// WrapMode returns the wrap mode in use.
func (f *Field) WrapMode() lattice.WrapMode { return f.wrap }

// Noise1D samples a 1D lattice at x. At integer coordinates the result equals
// the stored sample. The value is not clamped.
//
// It returns lattice.OutOfDomain when the lattice is not one-dimensional or
// x is not finite.
func (f *Field) Noise1D(x float64) float64 {
	if f.lat == nil || f.lat.Dimensions() != 1 || !finite(x) {
		return lattice.OutOfDomain
	}

	length := f.lat.DimLength()
	i, r := lattice.Split(x, length, f.wrap)
	n := lattice.Neighbors(i, length)

	return f.scheme.Eval(
		f.lat.Value1(n[0]),
		f.lat.Value1(n[1]),
		f.lat.Value1(n[2]),
		f.lat.Value1(n[3]),
		r,
	)
}

// Noise2D samples a 2D lattice at (x, y). Each of the four rows around y is
// interpolated across x first, then the row results are interpolated across
// y. Two cubic passes can overshoot, so the result is clamped to [0,1].
//
// It returns lattice.OutOfDomain when the lattice is not two-dimensional or
// a coordinate is not finite.
func (f *Field) Noise2D(x, y float64) float64 {
	if f.lat == nil || f.lat.Dimensions() != 2 || !finite(x) || !finite(y) {
		return lattice.OutOfDomain
	}

	length := f.lat.DimLength()
	ix, rx := lattice.Split(x, length, f.wrap)
	iy, ry := lattice.Split(y, length, f.wrap)
	nx := lattice.Neighbors(ix, length)
	ny := lattice.Neighbors(iy, length)

	var rows [4]float64
	for k, row := range ny {
		rows[k] = f.scheme.Eval(
			f.lat.Value2(nx[0], row),
			f.lat.Value2(nx[1], row),
			f.lat.Value2(nx[2], row),
			f.lat.Value2(nx[3], row),
			rx,
		)
	}

	return clamp01(f.scheme.Eval(rows[0], rows[1], rows[2], rows[3], ry))
}

// Noise1D samples l with the default field configuration.
func Noise1D(l *lattice.Lattice, x float64) float64 {
	return New(l).Noise1D(x)
}

// Noise2D samples l with the default field configuration.
func Noise2D(l *lattice.Lattice, x, y float64) float64 {
	return New(l).Noise2D(x, y)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
