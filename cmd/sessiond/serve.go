package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sessiond/internal/config"
	"sessiond/internal/daemon"
	"sessiond/internal/httpapi"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newServeCmd() *cobra.Command {
	var (
		addr        string
		cfgPath     string
		logLevel    string
		corsOrigins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the viewer frontend",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			// explicit flags override file values
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("cors-origin") {
				cfg.CORSEnabled = true
				cfg.CORSOrigins = corsOrigins
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envDefault("SESSIOND_ADDR", ":8089"), "HTTP listen address, e.g. :8089")
	cmd.Flags().StringVar(&cfgPath, "config", "", "Optional config file (.yaml/.json/.toml)")
	cmd.Flags().StringVar(&logLevel, "log-level", envDefault("SESSIOND_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origin for the frontend (repeatable)")
	return cmd
}

func runServe(cfg config.Config) error {
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins)

	// Base context canceled on Ctrl+C / SIGTERM so in-flight chat streams
	// are torn down during shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	mux := httpapi.NewMux(daemon.New())
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("sessiond listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
