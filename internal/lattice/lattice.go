// Package lattice implements an immutable N-dimensional grid of pseudo-random
// samples together with the wraparound indexing used to tile it infinitely.
package lattice

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/latticenoise/internal/rng"
)

// Lattice is a fixed grid of samples in [0,1]. The grid is square, cubic and
// so on: every axis has the same extent.
//
// A Lattice never changes after New returns, so it can be shared between
// goroutines without locking.
type Lattice struct {
	values     []float64
	dimLength  uint32
	dimensions uint32
	size       uint32
	seed       int64
}

// New builds a lattice with dimLength^dimensions samples drawn from src.
// When src is nil a wall-clock seeded source is used; the seed it picked is
// available through Seed.
//
// Cells are filled in index order, axis 0 varying fastest, with one draw per
// cell. Every draw is clamped into [0,1].
func New(dimensions, dimLength uint32, src rng.Source) (*Lattice, error) {
	size, err := Size(dimensions, dimLength)
	if err != nil {
		return nil, err
	}

	values, err := allocate(size)
	if err != nil {
		return nil, fmt.Errorf("allocate %d samples: %w", size, err)
	}

	if src == nil {
		src = rng.NewTimeSource()
	}

	for i := range values {
		values[i] = clamp01(src.Next())
	}

	return &Lattice{
		values:     values,
		dimLength:  dimLength,
		dimensions: dimensions,
		size:       size,
		seed:       src.Seed(),
	}, nil
}

// Size returns dimLength^dimensions, validating the arguments the same way
// New does.
func Size(dimensions, dimLength uint32) (uint32, error) {
	if dimensions < 1 {
		return 0, ErrInvalidDimensions
	}
	if dimLength < 1 {
		return 0, ErrInvalidLength
	}

	// dimLength fits in 32 bits, so the product of a value <= MaxUint32 and
	// dimLength cannot overflow 64 bits.
	size := uint64(1)
	for i := uint32(0); i < dimensions; i++ {
		size *= uint64(dimLength)
		if size > math.MaxUint32 {
			return 0, fmt.Errorf("%d^%d: %w", dimLength, dimensions, ErrSizeOverflow)
		}
	}
	return uint32(size), nil
}

func allocate(n uint32) (values []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			values, err = nil, ErrAllocation
		}
	}()
	return make([]float64, n), nil
}

// Dimensions returns the number of axes.
func (l *Lattice) Dimensions() uint32 { return l.dimensions }

// DimLength returns the extent of a single axis.
func (l *Lattice) DimLength() uint32 { return l.dimLength }

// Size returns the total number of samples.
func (l *Lattice) Size() uint32 { return l.size }

// Seed returns the seed reported by the source that filled the lattice.
func (l *Lattice) Seed() int64 { return l.seed }

// Values returns a copy of the samples in storage order.
func (l *Lattice) Values() []float64 {
	out := make([]float64, len(l.values))
	copy(out, l.values)
	return out
}

// At returns the sample at flat index i, or OutOfDomain.
func (l *Lattice) At(i uint32) float64 {
	if l == nil || i >= l.size {
		return OutOfDomain
	}
	return l.values[i]
}

// Index maps coordinates to a flat index: sum of c[i] * dimLength^i.
// It reports false when the arity does not match or a coordinate is out of
// range.
func (l *Lattice) Index(coords ...uint32) (uint32, bool) {
	if l == nil || uint32(len(coords)) != l.dimensions {
		return 0, false
	}

	idx := uint32(0)
	stride := uint32(1)
	for _, c := range coords {
		if c >= l.dimLength {
			return 0, false
		}
		idx += c * stride
		stride *= l.dimLength
	}
	return idx, true
}

// ValueN returns the sample at the given coordinates for a lattice of any
// dimensionality, or OutOfDomain.
func (l *Lattice) ValueN(coords ...uint32) float64 {
	idx, ok := l.Index(coords...)
	if !ok {
		return OutOfDomain
	}
	return l.values[idx]
}

// Value1 reads a 1D lattice.
func (l *Lattice) Value1(x uint32) float64 {
	if l == nil || l.dimensions != 1 || x >= l.dimLength {
		return OutOfDomain
	}
	return l.values[x]
}

// Value2 reads a 2D lattice.
func (l *Lattice) Value2(x, y uint32) float64 {
	if l == nil || l.dimensions != 2 || x >= l.dimLength || y >= l.dimLength {
		return OutOfDomain
	}
	return l.values[y*l.dimLength+x]
}

// Value3 reads a 3D lattice.
func (l *Lattice) Value3(x, y, z uint32) float64 {
	if l == nil || l.dimensions != 3 ||
		x >= l.dimLength || y >= l.dimLength || z >= l.dimLength {
		return OutOfDomain
	}
	m := l.dimLength
	return l.values[z*m*m+y*m+x]
}

// Value4 reads a 4D lattice.
func (l *Lattice) Value4(x, y, z, w uint32) float64 {
	if l == nil || l.dimensions != 4 ||
		x >= l.dimLength || y >= l.dimLength || z >= l.dimLength || w >= l.dimLength {
		return OutOfDomain
	}
	m := l.dimLength
	return l.values[w*m*m*m+z*m*m+y*m+x]
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
