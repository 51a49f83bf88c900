package pipeline

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/latticenoise/internal/interp"
	"github.com/MeKo-Tech/latticenoise/internal/lattice"
	"github.com/MeKo-Tech/latticenoise/internal/noise"
	"github.com/MeKo-Tech/latticenoise/internal/raster"
	"github.com/MeKo-Tech/latticenoise/internal/rng"
)

// Method selects the noise function a Source renders.
type Method int

const (
	// MethodNoise2D renders a single interpolated lattice field.
	MethodNoise2D Method = iota
	// MethodFSum2D renders a normalized fractal sum of the field.
	MethodFSum2D
	// MethodPerlin renders gradient noise, for comparison.
	MethodPerlin
)

func (m Method) String() string {
	switch m {
	case MethodNoise2D:
		return "noise2d"
	case MethodFSum2D:
		return "fsum2d"
	case MethodPerlin:
		return "perlin"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses a method name.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "noise2d", "noise":
		return MethodNoise2D, nil
	case "fsum2d", "fsum", "fractal":
		return MethodFSum2D, nil
	case "perlin":
		return MethodPerlin, nil
	default:
		return MethodNoise2D, fmt.Errorf("unknown noise method %q (noise2d, fsum2d, perlin)", s)
	}
}

// NoiseConfig describes a 2D noise function.
type NoiseConfig struct {
	Method Method
	// Seed seeds the lattice. RandomSeed ignores it and derives one from the
	// wall clock instead.
	Seed            int64
	RandomSeed      bool
	DimensionLength uint32
	Scheme          interp.Scheme
	Wrap            lattice.WrapMode
	Fractal         noise.Options
}

// DefaultNoiseConfig returns a 256-wide lattice with default fractal options.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Method:          MethodNoise2D,
		Seed:            1,
		DimensionLength: 256,
		Scheme:          interp.SchemeCatmullRom,
		Wrap:            lattice.WrapMirror,
		Fractal:         noise.DefaultOptions(),
	}
}

// Source is a ready-to-sample 2D noise function with output in [0,1].
type Source struct {
	cfg     NoiseConfig
	fn      raster.Func
	lattice *lattice.Lattice
	seed    int64
}

// NewSource builds the lattice and the sampling function described by cfg.
func NewSource(cfg NoiseConfig) (*Source, error) {
	var src rng.Source
	if cfg.RandomSeed {
		src = rng.NewTimeSource()
	} else {
		src = rng.NewSeeded(cfg.Seed)
	}

	s := &Source{cfg: cfg, seed: src.Seed()}

	if cfg.Method == MethodPerlin {
		if err := cfg.Fractal.Validate(); err != nil {
			return nil, err
		}
		p := noise.NewPerlin(s.seed, int32(cfg.Fractal.Octaves))
		s.fn = p.Noise2D
		return s, nil
	}

	l, err := lattice.New(2, cfg.DimensionLength, src)
	if err != nil {
		return nil, fmt.Errorf("failed to build lattice: %w", err)
	}
	s.lattice = l
	field := noise.New(l, noise.WithScheme(cfg.Scheme), noise.WithWrapMode(cfg.Wrap))

	switch cfg.Method {
	case MethodNoise2D:
		s.fn = field.Noise2D
	case MethodFSum2D:
		sum, err := noise.NewFractalSum(cfg.Fractal)
		if err != nil {
			return nil, err
		}
		s.fn = func(x, y float64) float64 {
			return sum.Normalize(sum.Sum2D(field, x, y))
		}
	default:
		return nil, fmt.Errorf("unknown noise method %s", cfg.Method)
	}
	return s, nil
}

// Func returns the sampling function.
func (s *Source) Func() raster.Func { return s.fn }

// Seed returns the seed actually used, which differs from the configured
// one when RandomSeed was set.
func (s *Source) Seed() int64 { return s.seed }

// Config returns the configuration the source was built from.
func (s *Source) Config() NoiseConfig { return s.cfg }

// Lattice returns the lattice, or nil for Perlin sources.
func (s *Source) Lattice() *lattice.Lattice { return s.lattice }

// Period returns the distance after which the noise repeats. Perlin noise
// does not repeat; the dimension length is used as its nominal period.
func (s *Source) Period() float64 {
	return float64(s.cfg.DimensionLength)
}
