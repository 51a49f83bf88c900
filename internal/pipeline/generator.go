// Package pipeline wires a noise source, rasterizer, post-processing and
// encoder into a single tile rendering step shared by the CLI and the server.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/latticenoise/internal/imageio"
	"github.com/MeKo-Tech/latticenoise/internal/raster"
	"github.com/MeKo-Tech/latticenoise/internal/texture"
	"github.com/MeKo-Tech/latticenoise/internal/tile"
)

// TileSink stores encoded tiles, e.g. an MBTiles writer.
type TileSink interface {
	WriteTile(c tile.Coords, data []byte) error
}

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	Func raster.Func
	// Period is the lattice-space width of the zoom 0 tile.
	Period   float64
	TileSize int
	Filters  raster.Filters
	// Tint colors the rendered gray tile; the zero value keeps it gray.
	Tint  texture.Tint
	Image imageio.Options
	// OutputDir receives one file per tile unless Sink is set.
	OutputDir string
	Sink      TileSink
	// Force re-renders tiles that already exist in OutputDir.
	Force bool
}

// Generator renders tiles of a noise function.
type Generator struct {
	cfg    GeneratorConfig
	logger *slog.Logger
}

// NewGenerator validates cfg and prepares a generator.
func NewGenerator(cfg GeneratorConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.Func == nil {
		return nil, fmt.Errorf("noise function is required")
	}
	if cfg.TileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive")
	}
	if !(cfg.Period > 0) {
		return nil, fmt.Errorf("period must be positive, got %v", cfg.Period)
	}

	return &Generator{cfg: cfg, logger: logger}, nil
}

// TileSize returns the configured tile size in pixels.
func (g *Generator) TileSize() int { return g.cfg.TileSize }

// Format returns the configured output format.
func (g *Generator) Format() imageio.Format { return g.cfg.Image.Format }

// Image renders the tile at the given pixel size.
func (g *Generator) Image(ctx context.Context, coords tile.Coords, size int) (*image.Gray, error) {
	if !coords.Valid() {
		return nil, fmt.Errorf("invalid tile %s", coords)
	}
	if size <= 0 {
		size = g.cfg.TileSize
	}

	opts := raster.ForBound(coords.Bound(g.cfg.Period), size)
	img, err := raster.Render(ctx, g.cfg.Func, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to render tile %s: %w", coords, err)
	}
	return raster.PostProcess(img, g.cfg.Filters), nil
}

// Encode renders the tile and returns the encoded image.
func (g *Generator) Encode(ctx context.Context, coords tile.Coords, size int) ([]byte, error) {
	img, err := g.Image(ctx, coords, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, g.colorize(img), g.cfg.Image); err != nil {
		return nil, fmt.Errorf("failed to encode tile %s: %w", coords, err)
	}
	return buf.Bytes(), nil
}

// RenderTile renders one tile at the configured size and stores it in the
// sink or output directory. It returns the file path, or a tile name when a
// sink is used.
func (g *Generator) RenderTile(ctx context.Context, coords tile.Coords) (string, error) {
	if g.cfg.Sink != nil {
		data, err := g.Encode(ctx, coords, g.cfg.TileSize)
		if err != nil {
			return "", err
		}
		if err := g.cfg.Sink.WriteTile(coords, data); err != nil {
			return "", fmt.Errorf("failed to store tile %s: %w", coords, err)
		}
		g.log().Debug("Stored tile", "coords", coords.String(), "bytes", len(data))
		return coords.String(), nil
	}

	finalPath := filepath.Join(g.cfg.OutputDir, coords.Path(g.cfg.Image.Format.Extension()[1:]))
	if !g.cfg.Force {
		if _, err := os.Stat(finalPath); err == nil {
			g.log().Debug("Tile already exists; skipping", "coords", coords.String(), "path", finalPath)
			return finalPath, nil
		}
	}

	img, err := g.Image(ctx, coords, g.cfg.TileSize)
	if err != nil {
		return "", err
	}

	if err := imageio.WriteFile(finalPath, g.colorize(img), g.cfg.Image); err != nil {
		return "", err
	}
	g.log().Debug("Wrote tile", "coords", coords.String(), "path", finalPath)
	return finalPath, nil
}

func (g *Generator) colorize(img *image.Gray) image.Image {
	if g.cfg.Tint == (texture.Tint{}) || g.cfg.Tint.IsGrayscale() {
		return img
	}
	return g.cfg.Tint.Apply(img)
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
