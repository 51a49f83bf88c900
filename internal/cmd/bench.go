package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/latticenoise/internal/imageio"
	"github.com/MeKo-Tech/latticenoise/internal/pipeline"
	"github.com/MeKo-Tech/latticenoise/internal/raster"
	"github.com/MeKo-Tech/latticenoise/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time repeated full-image noise renders",
	Long: `Render a size x size image of the noise function --loops times over a
dedicated lattice and report the average time per pass. The image of the last
pass is written to --output when set.`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().Uint32("lattice-size", 128, "Lattice dimension length used for the benchmark")
	benchCmd.Flags().Int("size", 4096, "Image width and height in pixels")
	benchCmd.Flags().Float64("scale", 4, "Pixels per lattice unit")
	benchCmd.Flags().Int("loops", 10, "Number of timed passes")
	benchCmd.Flags().Bool("normalize", true, "Stretch the written image to the brightest sample")
	benchCmd.Flags().Bool("progress", true, "Show a progress bar")
	benchCmd.Flags().StringP("output", "o", "", "Write the last pass to this image (optional)")

	mustBindFlags(benchCmd, []flagBinding{
		{"bench.lattice_size", "lattice-size"},
		{"bench.size", "size"},
		{"bench.scale", "scale"},
		{"bench.loops", "loops"},
		{"bench.normalize", "normalize"},
		{"bench.progress", "progress"},
		{"bench.output", "output"},
	})
	addImageFlags(benchCmd, "bench")
}

// benchResult summarizes a benchmark run.
type benchResult struct {
	Loops   int
	Total   time.Duration
	Average time.Duration
	Image   *image.Gray
}

// runBenchLoops renders opts loops times and returns the timings and the
// last image.
func runBenchLoops(ctx context.Context, fn raster.Func, opts raster.Options, loops int, onPass worker.ProgressFunc) (benchResult, error) {
	if loops < 1 {
		return benchResult{}, fmt.Errorf("loops must be at least 1, got %d", loops)
	}

	res := benchResult{Loops: loops}
	for i := 0; i < loops; i++ {
		start := time.Now()
		img, err := raster.Render(ctx, fn, opts)
		if err != nil {
			return res, err
		}
		res.Total += time.Since(start)
		res.Image = img

		if onPass != nil {
			onPass(i+1, loops, 0)
		}
	}
	res.Average = res.Total / time.Duration(loops)
	return res, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg, err := noiseConfig()
	if err != nil {
		return err
	}
	cfg.DimensionLength = viper.GetUint32("bench.lattice_size")

	src, err := pipeline.NewSource(cfg)
	if err != nil {
		return err
	}

	size := viper.GetInt("bench.size")
	loops := viper.GetInt("bench.loops")
	output := viper.GetString("bench.output")
	opts := raster.Options{
		Width:     size,
		Height:    size,
		Scale:     viper.GetFloat64("bench.scale"),
		Normalize: viper.GetBool("bench.normalize"),
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	var imgOpts imageio.Options
	if output != "" {
		if imgOpts, err = imageOptions("bench", output); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Benchmarking started",
		"method", cfg.Method.String(),
		"lattice_size", cfg.DimensionLength,
		"size", size,
		"scale", opts.Scale,
		"loops", loops,
	)

	progress := worker.NewProgress(loops, "passes", viper.GetBool("bench.progress"))
	res, err := runBenchLoops(ctx, src.Func(), opts, loops, progress.Callback())
	progress.Done()
	if err != nil {
		return err
	}

	samples := float64(size) * float64(size)
	logger.Info("Benchmark finished",
		"average_seconds", res.Average.Seconds(),
		"total_seconds", res.Total.Seconds(),
		"ns_per_sample", float64(res.Average.Nanoseconds())/samples,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Average Seconds Spent: %f.\n", res.Average.Seconds())

	if output != "" {
		img, err := finishImage("bench", res.Image)
		if err != nil {
			return err
		}
		if err := imageio.WriteFile(output, img, imgOpts); err != nil {
			return err
		}
		logger.Info("Image written", "path", output)
	}
	return nil
}
