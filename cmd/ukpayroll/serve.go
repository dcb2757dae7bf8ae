package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/ukpayroll/internal/api"
	"github.com/rgehrsitz/ukpayroll/internal/calculation"
	"github.com/rgehrsitz/ukpayroll/internal/config"
	"github.com/rgehrsitz/ukpayroll/internal/domain"
	"github.com/rgehrsitz/ukpayroll/internal/events"
	"github.com/rgehrsitz/ukpayroll/internal/ledger"
	"github.com/rgehrsitz/ukpayroll/internal/payrun"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the payroll HTTP API",
	Long:  "Serves the payroll API. Configuration comes from the environment and an optional .env file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		cfg, err := config.LoadServerConfig(envFile)
		if err != nil {
			return err
		}

		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		logger := api.NewRequestLogger(os.Stdout, level, cfg.App.Env)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := openLedger(ctx, cfg.Ledger)
		if err != nil {
			return err
		}
		defer closeStore()

		var taxYear *domain.TaxYearConfiguration
		if cfg.TaxYearConfigFile != "" {
			if taxYear, err = config.NewInputParser().LoadTaxYearConfig(cfg.TaxYearConfigFile); err != nil {
				return err
			}
		}

		engine := calculation.NewPayrollEngine()
		engine.SetLogger(api.SlogLogger{L: logger})

		runner := payrun.NewRunner(engine)
		runner.Store = store
		runner.Logger = api.SlogLogger{L: logger}
		if len(cfg.Kafka.Brokers) > 0 {
			publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
			defer publisher.Close()
			runner.Publisher = publisher
		}

		router := api.NewRouter(api.NewPayrollHandler(runner, taxYear), api.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			TokenAuth:      api.NewTokenAuth(cfg.JWT.Secret),
		})

		server := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.Info("HTTP server running",
				slog.String("addr", server.Addr),
				slog.String("ledger", cfg.Ledger.Driver),
				slog.Bool("auth", cfg.JWT.Secret != ""),
			)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		select {
		case err, ok := <-serveErr:
			if ok {
				return fmt.Errorf("listen on %s: %w", server.Addr, err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		logger.Info("Server exited gracefully")
		return nil
	},
}

// openLedger creates the YTD store named by the ledger driver
func openLedger(ctx context.Context, cfg config.LedgerConfig) (ledger.Store, func(), error) {
	switch cfg.Driver {
	case config.LedgerFile:
		store, err := ledger.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.LedgerPostgres:
		store, err := ledger.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return ledger.NewMemoryStore(), func() {}, nil
}

func init() {
	serveCmd.Flags().String("env-file", ".env", "Optional dotenv file loaded before reading the environment")
}
