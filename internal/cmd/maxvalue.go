package cmd

import (
	"fmt"

	"github.com/MeKo-Tech/latticenoise/internal/noise"
	"github.com/spf13/cobra"
)

var maxValueCmd = &cobra.Command{
	Use:   "maxvalue",
	Short: "Print the largest value a fractal sum can reach",
	Long: `Print the sum of all octave amplitudes for --octaves and --amplitude-ratio,
i.e. the fractal sum of a field that is 1.0 everywhere. --offset is not included.`,
	Args: cobra.NoArgs,
	RunE: runMaxValue,
}

func init() {
	rootCmd.AddCommand(maxValueCmd)
}

func runMaxValue(cmd *cobra.Command, args []string) error {
	opts := fractalOptions()
	fs, err := noise.NewFractalSum(opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%g\n", fs.MaxValue())
	return nil
}
