package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/fahad9993/expense-tracker-gsheet/internal/amqp"
	"github.com/fahad9993/expense-tracker-gsheet/internal/auth"
	"github.com/fahad9993/expense-tracker-gsheet/internal/backend"
	"github.com/fahad9993/expense-tracker-gsheet/internal/cli"
	apphttp "github.com/fahad9993/expense-tracker-gsheet/internal/http"
	"github.com/fahad9993/expense-tracker-gsheet/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting journal-server")

	cfg := cli.LoadAndValidateConfig(logger)

	// Choose the journal backend (memory for local development).
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// The mirror worker is notified over AMQP; without a broker configured
	// the server still works, resyncs cover the gap.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	authSvc := auth.NewService(cfg.ValidUsername, cfg.ValidPassword, cfg.JWTSecret, cfg.JWTRefreshSecret)
	journal := services.NewJournalService(result.Backend, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, journal, result.Backend, authSvc)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := journal.Close(); err != nil {
			logger.Error("Failed to close publisher", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting journal server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
