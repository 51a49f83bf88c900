package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/latticenoise/internal/imageio"
	"github.com/MeKo-Tech/latticenoise/internal/raster"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a noise image",
	Long: `Render one grayscale image of the configured noise function.

Pixel (px, py) samples the noise at (offset-x + px/scale, offset-y + py/scale),
so --scale is the number of pixels per lattice cell.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "noise.png", "Output image path")
	renderCmd.Flags().Int("width", 512, "Image width in pixels")
	renderCmd.Flags().Int("height", 512, "Image height in pixels")
	renderCmd.Flags().Float64("scale", 16, "Pixels per lattice unit")
	renderCmd.Flags().Float64("offset-x", 0, "Lattice-space X of the left edge")
	renderCmd.Flags().Float64("offset-y", 0, "Lattice-space Y of the top edge")
	renderCmd.Flags().Bool("normalize", false, "Stretch the output so the brightest pixel is white")

	mustBindFlags(renderCmd, []flagBinding{
		{"render.output", "output"},
		{"render.width", "width"},
		{"render.height", "height"},
		{"render.scale", "scale"},
		{"render.offset_x", "offset-x"},
		{"render.offset_y", "offset-y"},
		{"render.normalize", "normalize"},
	})
	addImageFlags(renderCmd, "render")
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	output := viper.GetString("render.output")
	opts := raster.Options{
		Width:     viper.GetInt("render.width"),
		Height:    viper.GetInt("render.height"),
		Scale:     viper.GetFloat64("render.scale"),
		OffsetX:   viper.GetFloat64("render.offset_x"),
		OffsetY:   viper.GetFloat64("render.offset_y"),
		Normalize: viper.GetBool("render.normalize"),
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	imgOpts, err := imageOptions("render", output)
	if err != nil {
		return err
	}

	src, err := newSource()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Rendering noise image",
		"width", opts.Width,
		"height", opts.Height,
		"scale", opts.Scale,
		"output", output,
		"format", imgOpts.Format.String(),
	)

	start := time.Now()
	gray, err := raster.Render(ctx, src.Func(), opts)
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	img, err := finishImage("render", gray)
	if err != nil {
		return err
	}

	if err := imageio.WriteFile(output, img, imgOpts); err != nil {
		return err
	}

	logger.Info("Image written", "path", output, "seed", src.Seed(), "ms", time.Since(start).Milliseconds())
	return nil
}
