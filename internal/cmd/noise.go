package cmd

import (
	"fmt"
	"image"

	"github.com/MeKo-Tech/latticenoise/internal/imageio"
	"github.com/MeKo-Tech/latticenoise/internal/interp"
	"github.com/MeKo-Tech/latticenoise/internal/lattice"
	"github.com/MeKo-Tech/latticenoise/internal/mbtiles"
	"github.com/MeKo-Tech/latticenoise/internal/noise"
	"github.com/MeKo-Tech/latticenoise/internal/pipeline"
	"github.com/MeKo-Tech/latticenoise/internal/raster"
	"github.com/MeKo-Tech/latticenoise/internal/texture"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// noiseConfig reads the persistent noise flags.
func noiseConfig() (pipeline.NoiseConfig, error) {
	method, err := pipeline.ParseMethod(viper.GetString("noise.method"))
	if err != nil {
		return pipeline.NoiseConfig{}, err
	}
	scheme, err := interp.ParseScheme(viper.GetString("noise.scheme"))
	if err != nil {
		return pipeline.NoiseConfig{}, err
	}
	wrap, err := lattice.ParseWrapMode(viper.GetString("noise.wrap"))
	if err != nil {
		return pipeline.NoiseConfig{}, err
	}

	fractal := fractalOptions()
	if err := fractal.Validate(); err != nil {
		return pipeline.NoiseConfig{}, err
	}

	return pipeline.NoiseConfig{
		Method:          method,
		Seed:            viper.GetInt64("noise.seed"),
		RandomSeed:      viper.GetBool("noise.random_seed"),
		DimensionLength: viper.GetUint32("noise.dim_length"),
		Scheme:          scheme,
		Wrap:            wrap,
		Fractal:         fractal,
	}, nil
}

func fractalOptions() noise.Options {
	return noise.Options{
		Octaves:        viper.GetInt("noise.octaves"),
		AmplitudeRatio: viper.GetFloat64("noise.amplitude_ratio"),
		FrequencyRatio: viper.GetFloat64("noise.frequency_ratio"),
		Offset:         viper.GetFloat64("noise.offset"),
	}
}

// newSource builds the configured noise source and logs its provenance.
func newSource() (*pipeline.Source, error) {
	cfg, err := noiseConfig()
	if err != nil {
		return nil, err
	}

	src, err := pipeline.NewSource(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Noise source ready",
		"method", cfg.Method.String(),
		"seed", src.Seed(),
		"dim_length", cfg.DimensionLength,
		"scheme", cfg.Scheme.String(),
		"wrap", cfg.Wrap.String(),
	)
	return src, nil
}

// noiseParams records how a tileset was built, for MBTiles metadata.
func noiseParams(cfg pipeline.NoiseConfig, seed int64, period float64, tileSize int) mbtiles.NoiseParams {
	return mbtiles.NoiseParams{
		Seed:            seed,
		DimensionLength: cfg.DimensionLength,
		Method:          cfg.Method.String(),
		Scheme:          cfg.Scheme.String(),
		Wrap:            cfg.Wrap.String(),
		Octaves:         cfg.Fractal.Octaves,
		AmplitudeRatio:  cfg.Fractal.AmplitudeRatio,
		FrequencyRatio:  cfg.Fractal.FrequencyRatio,
		Period:          period,
		TileSize:        tileSize,
	}
}

// addImageFlags registers the output encoding and post-processing flags
// shared by render, lattice, bench, tiles and serve.
func addImageFlags(cmd *cobra.Command, prefix string) {
	f := cmd.Flags()
	f.String("image-format", "", "Image format (png, bmp, tiff, tga); defaults to the output extension or png")
	f.String("png-compression", "default", "PNG compression (default, speed, best, none)")
	f.Float32("blur", 0, "Gaussian blur sigma applied after rendering")
	f.Float32("contrast", 0, "Contrast adjustment in percent (-100..100)")
	f.Float32("gamma", 1, "Gamma correction")
	f.String("tint", "", "Color ramp \"low,high\" in hex (e.g. \"#1b2a49,#f4e9d8\"); empty keeps grayscale")

	mustBindFlags(cmd, []flagBinding{
		{prefix + ".image_format", "image-format"},
		{prefix + ".png_compression", "png-compression"},
		{prefix + ".blur", "blur"},
		{prefix + ".contrast", "contrast"},
		{prefix + ".gamma", "gamma"},
		{prefix + ".tint", "tint"},
	})
}

// imageOptions resolves the encoder options; an explicit --image-format wins
// over the extension of outputPath.
func imageOptions(prefix, outputPath string) (imageio.Options, error) {
	opts := imageio.Options{PNGCompression: viper.GetString(prefix + ".png_compression")}
	if _, err := imageio.ParsePNGCompression(opts.PNGCompression); err != nil {
		return opts, err
	}

	var err error
	switch name := viper.GetString(prefix + ".image_format"); {
	case name != "":
		opts.Format, err = imageio.ParseFormat(name)
	case outputPath != "":
		opts.Format, err = imageio.FormatFromPath(outputPath)
	default:
		opts.Format = imageio.FormatPNG
	}
	return opts, err
}

func filters(prefix string) raster.Filters {
	return raster.Filters{
		Blur:     float32(viper.GetFloat64(prefix + ".blur")),
		Contrast: float32(viper.GetFloat64(prefix + ".contrast")),
		Gamma:    float32(viper.GetFloat64(prefix + ".gamma")),
	}
}

func tint(prefix string) (texture.Tint, error) {
	return texture.ParseTint(viper.GetString(prefix + ".tint"))
}

// finishImage applies the post-processing filters and tint of prefix.
func finishImage(prefix string, img *image.Gray) (image.Image, error) {
	t, err := tint(prefix)
	if err != nil {
		return nil, err
	}
	img = raster.PostProcess(img, filters(prefix))
	if t.IsGrayscale() {
		return img, nil
	}
	return t.Apply(img), nil
}

// flagBinding maps a viper key to a command flag.
type flagBinding struct {
	key  string
	flag string
}

func mustBindFlags(cmd *cobra.Command, bindFlags []flagBinding) {
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, cmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}
