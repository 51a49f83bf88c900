package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/MeKo-Tech/latticenoise/internal/mbtiles"
	"github.com/MeKo-Tech/latticenoise/internal/tile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert folder tiles to MBTiles format",
	Long: `Convert a tile folder written by "mknoise tiles" into an MBTiles database.

The noise flags (--seed, --dim-length, --method, ...) should match the ones
used to render the folder; they are recorded in the database metadata.`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("input-dir", "./tiles", "Input directory containing tiles")
	convertCmd.Flags().StringP("output", "o", "", "Output MBTiles file path (required)")
	convertCmd.Flags().String("name", "latticenoise", "Tileset name")
	convertCmd.Flags().String("description", "Seamless lattice noise tiles", "Tileset description")
	convertCmd.Flags().Int("tile-size", 256, "Tile size in pixels the folder was rendered with")
	convertCmd.Flags().Float64("period", 0, "Lattice units covered by the zoom 0 tile (default: dim-length)")

	mustBindFlags(convertCmd, []flagBinding{
		{"convert.input_dir", "input-dir"},
		{"convert.output", "output"},
		{"convert.name", "name"},
		{"convert.description", "description"},
		{"convert.tile_size", "tile-size"},
		{"convert.period", "period"},
	})
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputDir := viper.GetString("convert.input_dir")
	outputFile := viper.GetString("convert.output")
	name := viper.GetString("convert.name")

	if logger == nil {
		initLogging()
	}

	if outputFile == "" {
		return fmt.Errorf("--output is required")
	}
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", inputDir)
	}

	cfg, err := noiseConfig()
	if err != nil {
		return err
	}
	if cfg.RandomSeed {
		return fmt.Errorf("--random-seed cannot describe an existing tileset; pass the --seed it was rendered with")
	}

	logger.Info("Converting folder tiles to MBTiles",
		"input_dir", inputDir,
		"output", outputFile,
		"name", name,
	)

	tiles, minZoom, maxZoom, err := scanTilesDirectory(inputDir)
	if err != nil {
		return fmt.Errorf("failed to scan tiles directory: %w", err)
	}
	if len(tiles) == 0 {
		return fmt.Errorf("no tiles found in %s", inputDir)
	}

	logger.Info("Found tiles", "count", len(tiles), "min_zoom", minZoom, "max_zoom", maxZoom)

	period := viper.GetFloat64("convert.period")
	if period <= 0 {
		period = float64(cfg.DimensionLength)
	}

	metadata := mbtiles.Metadata{
		Name:        name,
		Format:      "png",
		Description: viper.GetString("convert.description"),
		Type:        "baselayer",
		Version:     "1.0",
		MinZoom:     int(minZoom),
		MaxZoom:     int(maxZoom),
		Noise:       noiseParams(cfg, cfg.Seed, period, viper.GetInt("convert.tile_size")),
	}

	writer, err := mbtiles.New(outputFile, metadata)
	if err != nil {
		return fmt.Errorf("failed to create MBTiles writer: %w", err)
	}
	defer writer.Close()

	logger.Info("Converting tiles...")
	for i, ti := range tiles {
		data, err := os.ReadFile(ti.path)
		if err != nil {
			logger.Error("Failed to read tile", "path", ti.path, "error", err)
			continue
		}

		if err := writer.WriteTile(ti.coords, data); err != nil {
			logger.Error("Failed to write tile", "coords", ti.coords.String(), "error", err)
			continue
		}

		if (i+1)%100 == 0 {
			logger.Info("Progress", "converted", i+1, "total", len(tiles))
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush tiles: %w", err)
	}

	logger.Info("Conversion complete", "output", outputFile, "tiles", writer.Written())
	return nil
}

type tileFile struct {
	coords tile.Coords
	path   string
}

// Only base-size PNG tiles are converted; @2x variants from the on-demand
// cache are skipped.
var tileFilePattern = regexp.MustCompile(`^z\d+_x\d+_y\d+\.png$`)

// scanTilesDirectory finds tile files under dir, ordered by zoom, row and
// column, and reports the zoom range they cover.
func scanTilesDirectory(dir string) ([]tileFile, uint32, uint32, error) {
	var tiles []tileFile

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !tileFilePattern.MatchString(d.Name()) {
			return nil
		}

		c, err := tile.ParseCoords(d.Name())
		if err != nil {
			slog.Warn("Skipping tile file", "path", path, "error", err)
			return nil
		}
		tiles = append(tiles, tileFile{coords: c, path: path})
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	if len(tiles) == 0 {
		return nil, 0, 0, nil
	}

	sort.Slice(tiles, func(i, j int) bool {
		a, b := tiles[i].coords, tiles[j].coords
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	return tiles, tiles[0].coords.Z, tiles[len(tiles)-1].coords.Z, nil
}
