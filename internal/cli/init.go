// Package cli provides common initialization utilities shared by
// cmd/purse, cmd/recurring-worker and cmd/sheets-worker.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"purse/internal/amqp"
	"purse/internal/backend"
	"purse/internal/config"
	"purse/internal/core"
	plog "purse/internal/log"
)

// SetupLogger initializes structured logging from the configuration and
// sets it as the default logger. A nil config uses the defaults.
func SetupLogger(cfg *config.Config, component string) *plog.Logger {
	return SetupLoggerTo(os.Stdout, cfg, component)
}

// SetupLoggerTo is SetupLogger writing to w. Commands that print reports on
// stdout log to stderr.
func SetupLoggerTo(w io.Writer, cfg *config.Config, component string) *plog.Logger {
	lc := plog.DefaultConfig()
	lc.Component = component
	lc.Output = w
	if cfg != nil {
		lc.Level = cfg.SlogLevel()
		lc.Format = cfg.LogFormat
	}
	logger := plog.New(lc)
	plog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env files for local development. A missing file is
// not an error; a malformed one is.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadConfig loads configuration and validates it.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidateConfig loads configuration and validates it.
// Exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Calendar returns the calendar pinned to the configured time zone.
func Calendar(cfg *config.Config) core.Calendar {
	return core.NewCalendar(cfg.Location())
}

// OpenLedger opens the configured ledger backend.
func OpenLedger(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, bc)
}

// ConnectAMQP connects to the broker when one is configured. It returns nil
// when AMQP is disabled, and also when required is false and the broker is
// unreachable, so callers can run without messaging.
func ConnectAMQP(logger *slog.Logger, cfg *config.Config, required bool) (*amqp.Client, error) {
	if cfg.AMQPURL == "" {
		if required {
			return nil, fmt.Errorf("AMQP_URL is required")
		}
		logger.Info("AMQP disabled - generated expenses will be exported by polling only")
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		if required {
			return nil, fmt.Errorf("connect AMQP: %w", err)
		}
		logger.Warn("Failed to initialize AMQP client, continuing without messaging", "error", err)
		return nil, nil
	}
	logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
