package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/MeKo-Tech/latticenoise/internal/pipeline"
	"github.com/MeKo-Tech/latticenoise/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve noise tiles over HTTP (rendered on demand or from MBTiles)",
	Long: `Serve tiles at /tiles/{z}/{x}/{y}.<ext> (and @2x variants).

Without --mbtiles, tiles are rendered on demand from the configured noise
source and optionally cached to --cache-dir. Render counters are exposed at
/status. With --mbtiles, tiles are read from an existing database.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("mbtiles", "", "Serve tiles from this MBTiles file instead of rendering")
	serveCmd.Flags().String("cache-dir", "", "Directory to cache rendered tiles (empty disables caching)")
	serveCmd.Flags().Int("max-concurrent-renders", runtime.NumCPU(), "Max concurrent tile renders (default: number of CPUs)")
	serveCmd.Flags().Duration("render-timeout", 30*time.Second, "Timeout per tile render")
	serveCmd.Flags().String("cache-control", "", "Cache-Control header for served tiles")
	serveCmd.Flags().Int("tile-size", 256, "Base tile size in pixels (@2x requests render double)")
	serveCmd.Flags().Float64("period", 0, "Lattice units covered by the zoom 0 tile (default: dim-length)")

	mustBindFlags(serveCmd, []flagBinding{
		{"serve.addr", "addr"},
		{"serve.mbtiles", "mbtiles"},
		{"serve.cache_dir", "cache-dir"},
		{"serve.max_concurrent_renders", "max-concurrent-renders"},
		{"serve.render_timeout", "render-timeout"},
		{"serve.cache_control", "cache-control"},
		{"serve.tile_size", "tile-size"},
		{"serve.period", "period"},
	})
	addImageFlags(serveCmd, "serve")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")

	var mux *http.ServeMux
	if path := viper.GetString("serve.mbtiles"); path != "" {
		h, err := server.NewMBTilesHandler(server.MBTilesConfig{
			MBTilesPath:  path,
			CacheControl: viper.GetString("serve.cache_control"),
		}, logger)
		if err != nil {
			return err
		}
		defer h.Close()

		meta := h.Metadata()
		logger.Info("Serving MBTiles",
			"path", path,
			"name", meta.Name,
			"zoom_range", fmt.Sprintf("%d-%d", meta.MinZoom, meta.MaxZoom),
			"seed", meta.Noise.Seed,
		)
		mux = server.NewMux(h.Handler(), nil)
	} else {
		od, err := newOnDemandTiles()
		if err != nil {
			return err
		}
		mux = server.NewMux(od.Handler(), od.StatusHandler())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Tile server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down tile server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func newOnDemandTiles() (*server.OnDemandTiles, error) {
	src, err := newSource()
	if err != nil {
		return nil, err
	}

	imgOpts, err := imageOptions("serve", "")
	if err != nil {
		return nil, err
	}

	t, err := tint("serve")
	if err != nil {
		return nil, err
	}

	period := viper.GetFloat64("serve.period")
	if period <= 0 {
		period = src.Period()
	}

	gen, err := pipeline.NewGenerator(pipeline.GeneratorConfig{
		Func:     src.Func(),
		Period:   period,
		TileSize: viper.GetInt("serve.tile_size"),
		Filters:  filters("serve"),
		Tint:     t,
		Image:    imgOpts,
	}, logger)
	if err != nil {
		return nil, err
	}

	cfg := server.OnDemandTilesConfig{
		CacheDir:             viper.GetString("serve.cache_dir"),
		CacheControl:         viper.GetString("serve.cache_control"),
		MaxConcurrentRenders: viper.GetInt("serve.max_concurrent_renders"),
		RenderTimeout:        viper.GetDuration("serve.render_timeout"),
	}
	logger.Info("Rendering tiles on demand",
		"period", period,
		"tile_size", gen.TileSize(),
		"format", gen.Format().String(),
		"cache_dir", cfg.CacheDir,
		"max_concurrent_renders", cfg.MaxConcurrentRenders,
	)
	return server.NewOnDemandTiles(gen, cfg, logger), nil
}
