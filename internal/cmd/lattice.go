package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/latticenoise/internal/imageio"
	"github.com/MeKo-Tech/latticenoise/internal/pipeline"
	"github.com/MeKo-Tech/latticenoise/internal/raster"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var latticeCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Write the raw lattice as an image",
	Long:  `Write one pixel per lattice sample, without interpolation. The image is dim-length pixels square.`,
	RunE:  runLattice,
}

func init() {
	rootCmd.AddCommand(latticeCmd)

	latticeCmd.Flags().StringP("output", "o", "lattice.tga", "Output image path")

	mustBindFlags(latticeCmd, []flagBinding{
		{"lattice.output", "output"},
	})
	addImageFlags(latticeCmd, "lattice")
}

func runLattice(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	output := viper.GetString("lattice.output")
	imgOpts, err := imageOptions("lattice", output)
	if err != nil {
		return err
	}

	cfg, err := noiseConfig()
	if err != nil {
		return err
	}
	if cfg.Method == pipeline.MethodPerlin {
		return fmt.Errorf("--method perlin has no lattice to dump")
	}

	src, err := newSource()
	if err != nil {
		return err
	}

	gray, err := raster.RenderLattice(src.Lattice())
	if err != nil {
		return err
	}
	img, err := finishImage("lattice", gray)
	if err != nil {
		return err
	}

	if err := imageio.WriteFile(output, img, imgOpts); err != nil {
		return err
	}

	logger.Info("Lattice written", "path", output, "size", src.Lattice().DimLength(), "seed", src.Seed())
	return nil
}
