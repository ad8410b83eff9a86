// neonrun is a neon-lit three-lane endless runner for the terminal, SSH and
// remote renderers.
//
// Usage:
//
//	neonrun play             - Race in this terminal
//	neonrun serve            - Start SSH server for remote play
//	neonrun web              - Start the HTTP/WebSocket gateway
//	neonrun scores           - Show the leaderboard
//	neonrun config           - Print the effective tuning as YAML
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible runs
//	--db <path>           - Set database path (default: ~/.neonrun/scores.db)
//	--config <path>       - Load tuning from a YAML file
//	--difficulty <preset> - easy, normal, hard or fixed
//	--player <name>       - Name scores are saved under (default: OS user)
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "neonrun",
	Short: "Neon Runner - dodge traffic on an endless neon highway",
	Long: `Neon Runner is a three-lane endless runner. Steer between lanes,
pass cars for points and survive as the speed climbs with every level.

Available commands:
  play     - Race in this terminal
  serve    - Start SSH server for remote play
  web      - Start the HTTP/WebSocket gateway for remote renderers
  scores   - View the leaderboard
  config   - Print the effective tuning

Examples:
  neonrun play
  neonrun play --difficulty hard
  neonrun serve --ssh :2222
  neonrun web --addr :8080
  neonrun scores --runs`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.neonrun/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name for the leaderboard (default: OS user)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns the CLI logger.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// loadTuning loads the tuning file and applies the difficulty preset.
func loadTuning() (config.RunnerConfig, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return config.RunnerConfig{}, err
	}

	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return config.RunnerConfig{}, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		return config.RunnerConfig{}, err
	}
	return cfg, nil
}

// playerName resolves the local player identity. An unusable name races
// anonymously.
func playerName(logger *log.Logger) string {
	name := flagPlayer
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	valid, err := storage.ValidateUsername(name)
	if err != nil {
		logger.Warn("scores will not be saved", "error", err)
		return ""
	}
	return valid
}

// openStore opens the scores database, or returns nil with a warning.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		return nil
	}
	return store
}
