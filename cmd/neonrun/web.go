package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/neon-runner/internal/platform/web"
)

var (
	flagWebAddr string
	flagEnvFile string
	flagOrigins string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket gateway",
	Long: `Start the gateway for remote renderers.

Each WebSocket connection on /ws drives its own runner session and receives
a snapshot every frame. Query parameters:
  player=<name>   - Save scores under this name
  codec=msgpack   - Binary frames instead of JSON
  rain=1          - Include the rain field in frames

REST endpoints:
  GET  /api/v1/health
  GET  /api/v1/leaderboard?limit=N
  GET  /api/v1/runs?limit=N
  GET  /api/v1/players/{name}
  POST /api/v1/players   {"username": "..."}

Settings are read from the environment and an optional .env file:
  NEONRUN_WEB_ADDR, NEONRUN_CORS_ORIGINS, NEONRUN_TICK_RATE,
  NEONRUN_READ_TIMEOUT, NEONRUN_WRITE_TIMEOUT

Examples:
  neonrun web
  neonrun web --addr :9000 --origins https://example.com`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "Listen address (overrides NEONRUN_WEB_ADDR)")
	webCmd.Flags().StringVar(&flagEnvFile, "env", ".env", "Path to a .env file")
	webCmd.Flags().StringVar(&flagOrigins, "origins", "", "Comma separated CORS origins (overrides NEONRUN_CORS_ORIGINS)")
}

func runWeb(cmd *cobra.Command, _ []string) error {
	logger := newLogger("neonrun-web")

	cfg, err := web.LoadConfig(flagEnvFile)
	if err != nil {
		return err
	}
	if cfg.Tuning, err = loadTuning(); err != nil {
		return err
	}
	if flagWebAddr != "" {
		cfg.Addr = flagWebAddr
	}
	if flagOrigins != "" {
		cfg.AllowedOrigins = strings.Split(flagOrigins, ",")
	}
	if cmd.Flags().Changed("fps") {
		cfg.TickRate = flagFPS
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(cfg, store, logger).ListenAndServe(ctx)
}
