package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"purse/internal/amqp"
	"purse/internal/cli"
	"purse/internal/config"
	"purse/internal/core"
	"purse/internal/ledger"
	plog "purse/internal/log"
	"purse/internal/services"
)

var (
	version = "dev"

	envFile   string
	todayFlag string

	app *application
)

// application holds what every ledger command needs. It is built once per
// invocation in the root pre-run hook.
type application struct {
	cfg       *config.Config
	logger    *plog.Logger
	ledger    ledger.Ledger
	cleanup   func() error
	amqp      *amqp.Client
	cal       core.Calendar
	expenses  *services.ExpenseService
	processor *services.Processor
	now       time.Time
}

// today is the civil date the command acts on.
func (a *application) today() core.Date {
	return a.cal.DateOf(a.now)
}

func (a *application) close() {
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("Failed to close AMQP client", "error", err)
		}
	}
	if a.cleanup != nil {
		if err := a.cleanup(); err != nil {
			a.logger.Warn("Failed to close ledger", "error", err)
		}
	}
}

// skipLedger marks commands that run without opening the ledger.
const skipLedger = "purse/skip-ledger"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "purse",
		Short: "Personal expense ledger with recurring rules and subscriptions",
		Long: `purse keeps a ledger of card expenses, materializes recurring rules and
subscription charges when they fall due, and reports budgets, goals and
upcoming payments.

Configuration comes from the environment (and an optional .env file).`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file to load before reading configuration")
	root.PersistentFlags().StringVar(&todayFlag, "today", "", "act as if today were this date (YYYY-MM-DD)")

	root.AddCommand(processCmd())
	root.AddCommand(upcomingCmd())
	root.AddCommand(summaryCmd())
	root.AddCommand(rulesCmd())
	root.AddCommand(expenseCmd())
	root.AddCommand(cardsCmd())
	root.AddCommand(budgetsCmd())
	root.AddCommand(goalsCmd())
	root.AddCommand(installmentsCmd())
	root.AddCommand(categoriesCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	logger := cli.SetupLoggerTo(os.Stderr, nil, plog.ComponentCLI)
	ctx, cancel := cli.SignalContext(logger.Logger)

	err := newRootCmd().ExecuteContext(ctx)
	closeApp()
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipLedger] == "true" {
		return nil
	}
	if err := cli.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLoggerTo(os.Stderr, cfg, plog.ComponentCLI)
	cal := cli.Calendar(cfg)

	now := time.Now()
	if todayFlag != "" {
		d, err := core.ParseDate(todayFlag)
		if err != nil {
			return fmt.Errorf("--today: %w", err)
		}
		now = cal.StartOfDay(d)
	}

	ctx := cmd.Context()
	res, err := cli.OpenLedger(ctx, logger.Logger, cfg)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	a := &application{
		cfg:     cfg,
		logger:  logger,
		ledger:  res.Ledger,
		cleanup: res.Cleanup,
		cal:     cal,
		now:     now,
	}

	var publisher services.EventPublisher
	if cmd.Annotations[publishes] == "true" {
		client, err := cli.ConnectAMQP(logger.Logger, cfg, false)
		if err != nil {
			a.close()
			return err
		}
		if client != nil {
			a.amqp = client
			publisher = client
		}
	}

	a.expenses = services.NewExpenseService(a.ledger, nil, cal, publisher)
	a.processor = services.NewProcessor(a.ledger, cal, nil, publisher)
	app = a
	return nil
}

// publishes marks commands that announce new expenses on the broker.
const publishes = "purse/publishes"

func closeApp() {
	if app == nil {
		return
	}
	app.close()
	app = nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Annotations: map[string]string{skipLedger: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "purse %s\n", version)
		},
	}
}
