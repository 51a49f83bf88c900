// Package raster turns noise functions and lattices into grayscale images.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/MeKo-Tech/latticenoise/internal/lattice"
	"github.com/MeKo-Tech/latticenoise/internal/types"
	"github.com/disintegration/gift"
	"github.com/paulmach/orb"
)

var (
	// ErrInvalidOptions is returned for non-positive sizes or scales.
	ErrInvalidOptions = errors.New("invalid raster options")
	// ErrNonFinite is returned when the sampled function yields NaN or Inf,
	// usually because it was asked for coordinates outside its domain.
	ErrNonFinite = errors.New("noise function returned a non-finite value")
)

// Func is a 2D noise function with output in [0,1].
type Func func(x, y float64) float64

// Options maps device pixels to lattice space.
type Options struct {
	Width  int
	Height int
	// Scale is the number of pixels per lattice unit.
	Scale   float64
	OffsetX float64
	OffsetY float64
	// Normalize rescales the output so the brightest sample becomes white.
	Normalize bool
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if !(o.Scale > 0) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("%w: scale %v", ErrInvalidOptions, o.Scale)
	}
	return nil
}

// ForBound returns options that render the lattice-space square b into a
// size x size image.
func ForBound(b orb.Bound, size int) Options {
	return Options{
		Width:   size,
		Height:  size,
		Scale:   float64(size) / (b.Max.X() - b.Min.X()),
		OffsetX: b.Min.X(),
		OffsetY: b.Min.Y(),
	}
}

// Point returns the lattice-space position of pixel (px, py).
func (o Options) Point(px, py int) types.Point {
	origin := types.Pt2(o.OffsetX, o.OffsetY)
	return origin.Add(types.Pt2(float64(px), float64(py)).Scale(1 / o.Scale))
}

// Render samples fn once per pixel. Cancellation is checked between rows.
func Render(ctx context.Context, fn Func, opts Options) (*image.Gray, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	values := make([]float64, opts.Width*opts.Height)
	maxV := 0.0
	for py := 0; py < opts.Height; py++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := values[py*opts.Width : (py+1)*opts.Width]
		for px := range row {
			p := opts.Point(px, py)
			v := fn(p.X, p.Y)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w at %s", ErrNonFinite, p)
			}
			row[px] = v
			if v > maxV {
				maxV = v
			}
		}
	}

	scale := 1.0
	if opts.Normalize && maxV > 0 {
		scale = 1 / maxV
	}

	img := image.NewGray(image.Rect(0, 0, opts.Width, opts.Height))
	for i, v := range values {
		img.Pix[i] = toGray(v * scale)
	}
	return img, nil
}

// RenderLattice writes one pixel per sample of a 2D lattice.
func RenderLattice(l *lattice.Lattice) (*image.Gray, error) {
	if l == nil || l.Dimensions() != 2 {
		return nil, fmt.Errorf("%w: lattice dump needs a 2D lattice", ErrInvalidOptions)
	}
	n := l.DimLength()
	if n > math.MaxUint16 {
		return nil, fmt.Errorf("%w: dimension length %d too large for an image", ErrInvalidOptions, n)
	}

	img := image.NewGray(image.Rect(0, 0, int(n), int(n)))
	for i := uint32(0); i < l.Size(); i++ {
		img.Pix[i] = toGray(l.At(i))
	}
	return img, nil
}

// Filters is an optional post-processing chain. Zero fields are skipped.
type Filters struct {
	Blur     float32 // Gaussian sigma
	Contrast float32 // percentage, -100..100
	Gamma    float32 // 1 means unchanged
}

func (f Filters) list() []gift.Filter {
	var filters []gift.Filter
	if f.Blur > 0 {
		filters = append(filters, gift.GaussianBlur(f.Blur))
	}
	if f.Contrast != 0 {
		filters = append(filters, gift.Contrast(f.Contrast))
	}
	if f.Gamma > 0 && f.Gamma != 1 {
		filters = append(filters, gift.Gamma(f.Gamma))
	}
	return filters
}

// PostProcess applies the filters. img is returned as is when none are set.
func PostProcess(img *image.Gray, f Filters) *image.Gray {
	filters := f.list()
	if len(filters) == 0 {
		return img
	}

	g := gift.New(filters...)
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

func toGray(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255.9)
}
