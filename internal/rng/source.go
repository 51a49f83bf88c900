// Package rng provides the random sources used to fill noise lattices.
//
// None of the sources here are cryptographically secure. They only decide
// what a lattice looks like and must never be used for anything
// security-sensitive.
package rng

import (
	"math/rand"
	"time"
)

// Source supplies uniform values used to fill a lattice.
// Implementations are stateful and not safe for concurrent use.
type Source interface {
	// Next returns the next value, nominally in [0,1).
	Next() float64
	// Seed returns the value the source was initialized with.
	Seed() int64
}

// seedMultiplier spreads consecutive wall-clock seconds apart.
const seedMultiplier = 241

type seededSource struct {
	r    *rand.Rand
	seed int64
}

// NewSeeded returns a deterministic source backed by math/rand.
func NewSeeded(seed int64) Source {
	return &seededSource{r: rand.New(rand.NewSource(seed)), seed: seed}
}

// NewTimeSource returns a source seeded from the wall clock.
// The recorded seed can be passed to NewSeeded to rebuild the same lattice.
func NewTimeSource() Source {
	return NewSeeded(time.Now().Unix() * seedMultiplier)
}

func (s *seededSource) Next() float64 { return s.r.Float64() }

func (s *seededSource) Seed() int64 { return s.seed }

// Sequence replays a fixed list of values, wrapping around at the end.
// It is mostly useful for tests that need a known lattice.
type Sequence struct {
	values []float64
	pos    int
}

// NewSequence returns a source that yields values in order.
// An empty sequence yields zeros.
func NewSequence(values ...float64) *Sequence {
	v := make([]float64, len(values))
	copy(v, values)
	return &Sequence{values: v}
}

// Next returns the next value of the sequence.
func (s *Sequence) Next() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos]
	s.pos = (s.pos + 1) % len(s.values)
	return v
}

// Seed always returns 0; a sequence has no seed.
func (s *Sequence) Seed() int64 { return 0 }

// Func adapts a plain function to a Source.
type Func struct {
	Fn       func() float64
	SeedUsed int64
}

// Next calls the wrapped function.
func (f Func) Next() float64 { return f.Fn() }

// Seed returns SeedUsed.
func (f Func) Seed() int64 { return f.SeedUsed }
