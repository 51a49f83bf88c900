package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/MeKo-Tech/latticenoise/internal/imageio"
	"github.com/MeKo-Tech/latticenoise/internal/mbtiles"
	"github.com/MeKo-Tech/latticenoise/internal/pipeline"
	"github.com/MeKo-Tech/latticenoise/internal/tile"
	"github.com/MeKo-Tech/latticenoise/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Render a seamless tile pyramid",
	Long: `Render every tile from --zoom-min to --zoom-max. The zoom 0 tile covers one
lattice period (--period, default dim-length), so tiles at every zoom level
join seamlessly and the whole pyramid wraps around.

Tiles are written to --output-dir as z{z}_x{x}_y{y}.<ext>, or into an MBTiles
database with --format mbtiles.`,
	RunE: runTiles,
}

func init() {
	rootCmd.AddCommand(tilesCmd)

	tilesCmd.Flags().Uint32("zoom-min", 0, "Minimum zoom level")
	tilesCmd.Flags().Uint32("zoom-max", 2, "Maximum zoom level")
	tilesCmd.Flags().Float64("period", 0, "Lattice units covered by the zoom 0 tile (default: dim-length)")
	tilesCmd.Flags().Int("tile-size", 256, "Tile size in pixels")
	tilesCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	tilesCmd.Flags().Bool("progress", true, "Show progress bar")
	tilesCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some tiles fail")
	tilesCmd.Flags().Bool("force", false, "Re-render tiles that already exist")
	tilesCmd.Flags().String("format", "folder", "Output format: folder or mbtiles")
	tilesCmd.Flags().String("output-dir", "./tiles", "Output directory for folder format")
	tilesCmd.Flags().String("output-file", "", "Output file path for MBTiles format (e.g., noise.mbtiles)")
	tilesCmd.Flags().String("name", "latticenoise", "MBTiles tileset name")

	mustBindFlags(tilesCmd, []flagBinding{
		{"tiles.zoom_min", "zoom-min"},
		{"tiles.zoom_max", "zoom-max"},
		{"tiles.period", "period"},
		{"tiles.tile_size", "tile-size"},
		{"tiles.workers", "workers"},
		{"tiles.progress", "progress"},
		{"tiles.allow_failures", "allow-failures"},
		{"tiles.force", "force"},
		{"tiles.format", "format"},
		{"tiles.output_dir", "output-dir"},
		{"tiles.output_file", "output-file"},
		{"tiles.name", "name"},
	})
	addImageFlags(tilesCmd, "tiles")
}

func runTiles(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	zoomMin := viper.GetUint32("tiles.zoom_min")
	zoomMax := viper.GetUint32("tiles.zoom_max")
	tileSize := viper.GetInt("tiles.tile_size")
	workers := viper.GetInt("tiles.workers")
	format := viper.GetString("tiles.format")
	outputDir := viper.GetString("tiles.output_dir")
	outputFile := viper.GetString("tiles.output_file")

	if format != "folder" && format != "mbtiles" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'mbtiles'", format)
	}
	if format == "mbtiles" && outputFile == "" {
		return fmt.Errorf("--output-file is required when using --format=mbtiles")
	}

	coords, err := tile.Pyramid(zoomMin, zoomMax)
	if err != nil {
		return err
	}

	imgOpts, err := imageOptions("tiles", "")
	if err != nil {
		return err
	}
	if format == "mbtiles" && imgOpts.Format != imageio.FormatPNG {
		return fmt.Errorf("mbtiles output supports png tiles only")
	}

	src, err := newSource()
	if err != nil {
		return err
	}

	period := viper.GetFloat64("tiles.period")
	if period <= 0 {
		period = src.Period()
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	t, err := tint("tiles")
	if err != nil {
		return err
	}

	genCfg := pipeline.GeneratorConfig{
		Func:      src.Func(),
		Period:    period,
		TileSize:  tileSize,
		Filters:   filters("tiles"),
		Tint:      t,
		Image:     imgOpts,
		OutputDir: outputDir,
		Force:     viper.GetBool("tiles.force"),
	}

	var writer *mbtiles.Writer
	if format == "mbtiles" {
		writer, err = mbtiles.New(outputFile, mbtiles.Metadata{
			Name:        viper.GetString("tiles.name"),
			Format:      "png",
			Description: fmt.Sprintf("Lattice %s noise, seed %d", src.Config().Method, src.Seed()),
			Type:        "baselayer",
			Version:     "1.0",
			MinZoom:     int(zoomMin),
			MaxZoom:     int(zoomMax),
			Noise:       noiseParams(src.Config(), src.Seed(), period, tileSize),
		})
		if err != nil {
			return fmt.Errorf("failed to create MBTiles writer: %w", err)
		}
		defer writer.Close()
		genCfg.Sink = writer
	}

	gen, err := pipeline.NewGenerator(genCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting tile generation",
		"zoom_range", fmt.Sprintf("%d-%d", zoomMin, zoomMax),
		"tiles", len(coords),
		"workers", workers,
		"period", period,
		"format", format,
	)

	progress := worker.NewProgress(len(coords), "tiles", viper.GetBool("tiles.progress"))
	pool := worker.New(worker.Config{
		Workers:    workers,
		Renderer:   gen,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, worker.Tasks(coords))
	progress.Done()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Error("Tile generation failed", "coords", r.Task.Coords.String(), "error", r.Err)
		}
	}
	logger.Info(progress.Summary())

	if writer != nil {
		if err := writer.Close(); err != nil {
			return fmt.Errorf("failed to finalize MBTiles: %w", err)
		}
		logger.Info("MBTiles generation complete", "path", outputFile, "tiles", writer.Written())
	}

	if failed > 0 {
		if viper.GetBool("tiles.allow_failures") {
			logger.Warn("Some tiles failed to generate, continuing due to --allow-failures", "failed_count", failed)
			return nil
		}
		return fmt.Errorf("%d tiles failed to generate", failed)
	}
	return nil
}
