// Package interp provides the 1D spline evaluators used to turn four lattice
// samples into a continuous value.
//
// None of the splines clamp their output. Cubic splines overshoot the range of
// their control points near steep changes, so callers that need a bounded
// result clamp it themselves.
package interp

import (
	"fmt"
	"strings"
)

// CatmullRom evaluates the Catmull-Rom spline through p1 (t=0) and p2 (t=1),
// using p0 and p3 to derive the tangents.
func CatmullRom(p0, p1, p2, p3, t float64) float64 {
	fd0 := (p2 - p0) / 2
	fd1 := (p3 - p1) / 2

	a := 2*p1 - 2*p2 + fd0 + fd1
	b := -3*p1 + 3*p2 - 2*fd0 - fd1
	c := fd0
	d := p1

	t2 := t * t
	t3 := t2 * t
	return a*t3 + b*t2 + c*t + d
}

// Hermite evaluates the cubic Hermite spline between p0 and p1 with tangents
// m0 and m1.
func Hermite(p0, p1, m0, m1, t float64) float64 {
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	return h00*p0 + h10*m0 + h01*p1 + h11*m1
}

// Linear interpolates between a and b.
func Linear(a, b, t float64) float64 { return a + t*(b-a) }

// Scheme selects the spline used over four neighboring samples.
type Scheme int

const (
	SchemeCatmullRom Scheme = iota
	SchemeHermite
	SchemeLinear
)

func (s Scheme) String() string {
	switch s {
	case SchemeCatmullRom:
		return "catmull-rom"
	case SchemeHermite:
		return "hermite"
	case SchemeLinear:
		return "linear"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// ParseScheme parses a scheme name as printed by String.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "catmull-rom", "catmullrom", "cubic":
		return SchemeCatmullRom, nil
	case "hermite":
		return SchemeHermite, nil
	case "linear", "lerp":
		return SchemeLinear, nil
	default:
		return SchemeCatmullRom, fmt.Errorf("unknown interpolation scheme %q (catmull-rom, hermite, linear)", s)
	}
}

// Eval interpolates between p1 (t=0) and p2 (t=1) with the selected scheme.
// p0 and p3 are the outer neighbors.
func (s Scheme) Eval(p0, p1, p2, p3, t float64) float64 {
	switch s {
	case SchemeHermite:
		// Tangents are a third of the difference between the neighbors
		// two steps apart.
		m0 := (p2 - p0) / 3
		m1 := (p3 - p1) / 3
		return Hermite(p1, p2, m0, m1, t)
	case SchemeLinear:
		return Linear(p1, p2, t)
	default:
		return CatmullRom(p0, p1, p2, p3, t)
	}
}
