package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"purse/internal/cli"
	plog "purse/internal/log"
	"purse/internal/services"
)

func main() {
	bootLogger := cli.SetupLogger(nil, plog.ComponentScheduler)
	if err := cli.LoadEnvFile(); err != nil {
		bootLogger.Error("Failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg := cli.LoadAndValidateConfig(bootLogger.Logger)
	logger := cli.SetupLogger(cfg, plog.ComponentScheduler)
	logger.Info("Starting recurring-worker",
		"backend", cfg.DataBackend,
		"interval", cfg.ProcessingInterval,
		"timezone", cfg.Location().String())

	ctx, cancel := cli.SignalContext(logger.Logger)
	defer cancel()

	res, err := cli.OpenLedger(ctx, logger.Logger, cfg)
	if err != nil {
		logger.Error("Failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Warn("Failed to close ledger", "error", err)
		}
	}()

	// Generated expenses are announced to the sheets-worker when a broker
	// is configured; without one it finds them by polling.
	amqpClient, err := cli.ConnectAMQP(logger.Logger, cfg, false)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	var publisher services.EventPublisher
	if amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	processor := services.NewProcessor(res.Ledger, cli.Calendar(cfg), nil, publisher)
	scheduler := services.NewScheduler(processor, services.SchedulerConfig{Interval: cfg.ProcessingInterval})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := scheduler.Start(gctx); err != nil {
			return err
		}
		scheduler.Wait()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer stopCancel()
		logger.Info("Shutting down recurring-worker...")
		return scheduler.Stop(stopCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Recurring-worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Recurring-worker shutdown complete")
}
