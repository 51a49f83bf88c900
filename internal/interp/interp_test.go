package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-12

func TestCatmullRom_Endpoints(t *testing.T) {
	cases := [][4]float64{
		{0.1, 0.9, 0.2, 0.7},
		{0, 0, 1, 1},
		{1, 0.5, 0.25, 0},
		{0.3, 0.3, 0.3, 0.3},
	}

	for _, p := range cases {
		assert.Equal(t, p[1], CatmullRom(p[0], p[1], p[2], p[3], 0), "t=0 for %v", p)
		assert.InDelta(t, p[2], CatmullRom(p[0], p[1], p[2], p[3], 1), eps, "t=1 for %v", p)
	}
}

func TestCatmullRom_Coefficients(t *testing.T) {
	p0, p1, p2, p3 := 0.1, 0.9, 0.2, 0.7
	fd0 := (p2 - p0) / 2
	fd1 := (p3 - p1) / 2
	a := 2*p1 - 2*p2 + fd0 + fd1
	b := -3*p1 + 3*p2 - 2*fd0 - fd1

	for _, x := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		want := a*x*x*x + b*x*x + fd0*x + p1
		assert.InDelta(t, want, CatmullRom(p0, p1, p2, p3, x), eps)
	}
}

func TestCatmullRom_LinearData(t *testing.T) {
	// Collinear control points reproduce the line exactly.
	for _, x := range []float64{0, 0.2, 0.5, 0.8} {
		assert.InDelta(t, 1+x, CatmullRom(0, 1, 2, 3, x), eps)
	}
}

func TestCatmullRom_Overshoots(t *testing.T) {
	// A plateau between two drops bulges above the control points.
	v := CatmullRom(0, 1, 1, 0, 0.5)
	assert.InDelta(t, 1.125, v, eps)
}

func TestHermite(t *testing.T) {
	assert.Equal(t, 0.25, Hermite(0.25, 0.75, 3, -3, 0))
	assert.InDelta(t, 0.75, Hermite(0.25, 0.75, 3, -3, 1), eps)
	// Zero tangents: smoothstep between the endpoints.
	assert.InDelta(t, 0.5, Hermite(0, 1, 0, 0, 0.5), eps)
}

func TestScheme_Eval(t *testing.T) {
	p0, p1, p2, p3 := 0.1, 0.9, 0.2, 0.7

	for _, s := range []Scheme{SchemeCatmullRom, SchemeHermite, SchemeLinear} {
		t.Run(s.String(), func(t *testing.T) {
			assert.InDelta(t, p1, s.Eval(p0, p1, p2, p3, 0), eps)
			assert.InDelta(t, p2, s.Eval(p0, p1, p2, p3, 1), eps)
		})
	}

	x := 0.3
	assert.Equal(t, CatmullRom(p0, p1, p2, p3, x), SchemeCatmullRom.Eval(p0, p1, p2, p3, x))
	assert.Equal(t, Hermite(p1, p2, (p2-p0)/3, (p3-p1)/3, x), SchemeHermite.Eval(p0, p1, p2, p3, x))
	assert.Equal(t, Linear(p1, p2, x), SchemeLinear.Eval(p0, p1, p2, p3, x))
}

func TestParseScheme(t *testing.T) {
	tests := map[string]Scheme{
		"":            SchemeCatmullRom,
		"catmull-rom": SchemeCatmullRom,
		"Hermite":     SchemeHermite,
		"linear":      SchemeLinear,
	}
	for in, want := range tests {
		got, err := ParseScheme(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseScheme("bezier")
	assert.Error(t, err)
}
