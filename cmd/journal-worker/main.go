package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fahad9993/expense-tracker-gsheet/internal/amqp"
	"github.com/fahad9993/expense-tracker-gsheet/internal/cli"
	gsheet "github.com/fahad9993/expense-tracker-gsheet/internal/sheets/google"
	"github.com/fahad9993/expense-tracker-gsheet/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting journal-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The mirror lives in SQLite; the journal of record is the spreadsheet.
	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(sqliteRepo, sheetsClient)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEntryUpserts(gctx, func(msg *amqp.EntryUpsertMessage) error {
			return mirrorWorker.HandleUpsertMessage(gctx, msg)
		})
	})
	g.Go(func() error {
		return mirrorWorker.RunPeriodicResync(gctx, cfg.ResyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
