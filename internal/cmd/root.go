package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/MeKo-Tech/latticenoise/internal/noise"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mknoise",
	Short: "A lattice value-noise generator",
	Long: `mknoise builds a random lattice, interpolates it into smooth, infinitely
repeating noise and renders it as images, benchmarks or seamless tile pyramids.

Every command shares the noise flags (--seed, --dim-length, --method, ...),
which can also be set in config.yaml or through LATTICENOISE_* variables.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := noise.DefaultOptions()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	pf.Bool("verbose", false, "Enable verbose logging")
	pf.String("log-format", "text", "Log format (text, json)")

	pf.Int64("seed", 1, "Lattice seed")
	pf.Bool("random-seed", false, "Seed from the wall clock instead of --seed")
	pf.Uint32("dim-length", 256, "Lattice samples per axis; the noise repeats with this period")
	pf.String("method", "noise2d", "Noise function (noise2d, fsum2d, perlin)")
	pf.String("scheme", "catmull-rom", "Interpolation (catmull-rom, hermite, linear)")
	pf.String("wrap", "mirror", "Negative coordinate handling (mirror, signed)")
	pf.Int("octaves", defaults.Octaves, "Fractal sum octaves")
	pf.Float64("amplitude-ratio", defaults.AmplitudeRatio, "Amplitude multiplier between octaves")
	pf.Float64("frequency-ratio", defaults.FrequencyRatio, "Frequency multiplier between octaves")
	pf.Float64("offset", defaults.Offset, "Constant added to the fractal sum")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"verbose", "verbose"},
		{"log-format", "log-format"},
		{"noise.seed", "seed"},
		{"noise.random_seed", "random-seed"},
		{"noise.dim_length", "dim-length"},
		{"noise.method", "method"},
		{"noise.scheme", "scheme"},
		{"noise.wrap", "wrap"},
		{"noise.octaves", "octaves"},
		{"noise.amplitude_ratio", "amplitude-ratio"},
		{"noise.frequency_ratio", "frequency-ratio"},
		{"noise.offset", "offset"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, pf.Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("LATTICENOISE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
