package lattice

import (
	"fmt"
	"math"
	"strings"
)

// WrapMode selects how a continuous coordinate is decomposed into a lattice
// index and a fraction.
type WrapMode int

const (
	// WrapMirror drops the sign before decomposing, so noise(-x) == noise(x).
	WrapMirror WrapMode = iota
	// WrapSigned floors the signed coordinate. The field stays continuous
	// across zero instead of mirroring around it.
	WrapSigned
)

func (m WrapMode) String() string {
	switch m {
	case WrapMirror:
		return "mirror"
	case WrapSigned:
		return "signed"
	default:
		return fmt.Sprintf("WrapMode(%d)", int(m))
	}
}

// ParseWrapMode parses "mirror" or "signed".
func ParseWrapMode(s string) (WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mirror":
		return WrapMirror, nil
	case "signed":
		return WrapSigned, nil
	default:
		return WrapMirror, fmt.Errorf("unknown wrap mode %q (mirror, signed)", s)
	}
}

// Wrap maps any integer offset into [0, length) with true modulo.
func Wrap(k int64, length uint32) uint32 {
	l := int64(length)
	return uint32(((k % l) + l) % l)
}

// Split decomposes x into a wrapped lattice index in [0, length) and the
// fractional remainder in [0,1). x must be finite.
//
// The coordinate is reduced modulo length before flooring so that very large
// inputs keep their fractional precision and never overflow the index.
func Split(x float64, length uint32, mode WrapMode) (uint32, float64) {
	l := float64(length)

	var m float64
	switch mode {
	case WrapSigned:
		m = math.Mod(x, l)
		if m < 0 {
			m += l
		}
	default:
		m = math.Mod(math.Abs(x), l)
	}

	f := math.Floor(m)
	r := m - f
	if r < 0 || r >= 1 {
		r = 0
	}
	return Wrap(int64(f), length), r
}

// Neighbors returns the wrapped indices i-1, i, i+1 and i+2 that feed a cubic
// interpolation around i.
func Neighbors(i uint32, length uint32) [4]uint32 {
	k := int64(i)
	return [4]uint32{
		Wrap(k-1, length),
		Wrap(k, length),
		Wrap(k+1, length),
		Wrap(k+2, length),
	}
}
