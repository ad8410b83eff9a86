// Package web is the remote renderer gateway: an HTTP API for the
// leaderboard and a WebSocket endpoint where each connection drives its own
// headless runner session.
package web

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vovakirdan/neon-runner/internal/config"
)

// Environment variables read by LoadConfig.
const (
	EnvAddr         = "NEONRUN_WEB_ADDR"
	EnvOrigins      = "NEONRUN_CORS_ORIGINS"
	EnvTickRate     = "NEONRUN_TICK_RATE"
	EnvReadTimeout  = "NEONRUN_READ_TIMEOUT"
	EnvWriteTimeout = "NEONRUN_WRITE_TIMEOUT"
)

// Config holds gateway settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	TickRate       int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Tuning         config.RunnerConfig
}

// DefaultConfig returns the gateway defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		AllowedOrigins: []string{"*"},
		TickRate:       60,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		Tuning:         config.DefaultRunnerConfig(),
	}
}

// LoadConfig reads envFile into the environment (a missing file is fine)
// and overlays the variables it finds on the defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := DefaultConfig()
	cfg.Addr = getEnv(EnvAddr, cfg.Addr)
	if v := os.Getenv(EnvOrigins); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv(EnvTickRate); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TickRate = n
		}
	}
	cfg.ReadTimeout = parseDuration(os.Getenv(EnvReadTimeout), cfg.ReadTimeout)
	cfg.WriteTimeout = parseDuration(os.Getenv(EnvWriteTimeout), cfg.WriteTimeout)
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
