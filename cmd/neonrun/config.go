package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-runner/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective tuning as YAML",
	Long: `Print the tuning the game would run with, after the config search
order and the --difficulty preset are applied.

The output is a valid config file. Save it to ~/.neonrun/configs/runner.yaml
or ./configs/runner.yaml and edit it to change the defaults.

Examples:
  neonrun config
  neonrun config --difficulty hard > configs/runner.yaml
  neonrun config --defaults`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults, ignoring config files")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagDefaults {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	cfg, err := loadTuning()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
