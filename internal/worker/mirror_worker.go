package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fahad9993/expense-tracker-gsheet/internal/amqp"
	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets"
)

// MirrorStore is the slice of the SQLite repository the worker writes to.
type MirrorStore interface {
	Upsert(ctx context.Context, dateText, account, amount, note string) (bool, error)
	EntryCount(ctx context.Context) (int64, error)
}

// MirrorWorker keeps the local SQLite mirror in step with the spreadsheet.
// Upsert messages from the server apply incrementally; a periodic full resync
// against the journal covers messages lost while the worker was down.
type MirrorWorker struct {
	mirror  MirrorStore
	journal sheets.JournalLister
}

func NewMirrorWorker(mirror MirrorStore, journal sheets.JournalLister) *MirrorWorker {
	return &MirrorWorker{mirror: mirror, journal: journal}
}

// HandleUpsertMessage applies a single upsert notification to the mirror.
func (w *MirrorWorker) HandleUpsertMessage(ctx context.Context, msg *amqp.EntryUpsertMessage) error {
	created, err := w.mirror.Upsert(ctx, msg.Date, msg.Account, msg.Amount, msg.Notes)
	if err != nil {
		return fmt.Errorf("mirror upsert: %w", err)
	}
	slog.InfoContext(ctx, "Mirrored journal entry",
		"id", msg.ID,
		"date", msg.Date,
		"account", msg.Account,
		"created", created)
	return nil
}

// Resync replays the whole journal into the mirror. Rows that fail to apply
// are logged and skipped so a single bad row cannot stall the resync.
func (w *MirrorWorker) Resync(ctx context.Context) error {
	rows, err := w.journal.Entries(ctx)
	if err != nil {
		return fmt.Errorf("list journal entries: %w", err)
	}

	applied := 0
	skipped := 0
	for _, row := range rows {
		if _, err := w.mirror.Upsert(ctx, row.DateText, row.Account, row.Amount, row.Notes); err != nil {
			slog.WarnContext(ctx, "Skipping journal row during resync",
				"date", row.DateText,
				"account", row.Account,
				"error", err)
			skipped++
			continue
		}
		applied++
	}

	count, err := w.mirror.EntryCount(ctx)
	if err != nil {
		count = -1
	}
	slog.InfoContext(ctx, "Mirror resync completed",
		"rows", len(rows),
		"applied", applied,
		"skipped", skipped,
		"mirror_size", count)
	return nil
}

// RunPeriodicResync resyncs on startup and then on every tick until the
// context is cancelled.
func (w *MirrorWorker) RunPeriodicResync(ctx context.Context, interval time.Duration) error {
	if err := w.Resync(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup resync failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Resync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic resync failed", "error", err)
			}
		}
	}
}
