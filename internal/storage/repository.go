package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository mirrors journal entries from the spreadsheet into a local
// database. The spreadsheet stays the source of truth; the mirror serves
// reads when the Sheets API is unreachable and keeps a queryable history.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Upsert implements sheets.JournalStore. Rows are keyed by the canonical date
// text plus the normalized account name, matching how the spreadsheet matches
// slots.
func (r *SQLiteRepository) Upsert(ctx context.Context, dateText, account, amount, note string) (bool, error) {
	slot, err := core.Slot{DateText: dateText, Account: account}.Normalized()
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE journal_entries
		SET amount = ?, notes = ?, updated_at = ?
		WHERE date_text = ? AND account_key = ?`,
		amount, note, time.Now().UTC(), slot.DateText, slot.Account)
	if err != nil {
		return false, fmt.Errorf("update journal entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO journal_entries (date_text, account, account_key, amount, notes)
		VALUES (?, ?, ?, ?, ?)`,
		slot.DateText, account, slot.Account, amount, note)
	if err != nil {
		return false, fmt.Errorf("insert journal entry: %w", err)
	}

	slog.InfoContext(ctx, "Journal entry mirrored",
		"date", slot.DateText,
		"account", slot.Account)
	return true, nil
}

// Fetch implements sheets.JournalStore.
func (r *SQLiteRepository) Fetch(ctx context.Context, dateText, account string) (core.StoredRecord, error) {
	slot, err := core.Slot{DateText: dateText, Account: account}.Normalized()
	if err != nil {
		return core.StoredRecord{}, err
	}

	var rec core.StoredRecord
	err = r.db.QueryRowContext(ctx, `
		SELECT amount, notes FROM journal_entries
		WHERE date_text = ? AND account_key = ?`,
		slot.DateText, slot.Account).Scan(&rec.Amount, &rec.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return core.StoredRecord{}, core.ErrNotFound
	}
	if err != nil {
		return core.StoredRecord{}, fmt.Errorf("fetch journal entry: %w", err)
	}
	return rec, nil
}

// Filter implements sheets.EntryFilter against the mirror.
func (r *SQLiteRepository) Filter(ctx context.Context, month int, account string) ([]core.FilterRow, error) {
	if month < 0 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT date_text, amount, notes FROM journal_entries
		WHERE account_key = ?
		ORDER BY id`,
		core.NormalizeAccount(account))
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	var out []core.FilterRow
	for rows.Next() {
		var dateText, amount, notes string
		if err := rows.Scan(&dateText, &amount, &notes); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		d, err := core.ParseCanonicalDate(dateText)
		if err != nil {
			continue
		}
		if month != 0 && int(d.Month()) != month {
			continue
		}
		f := amountValue(amount)
		out = append(out, core.FilterRow{
			Date:   d.Format("02-01-2006"),
			Amount: f,
			Notes:  notes,
		})
	}
	return out, rows.Err()
}

// Entries implements sheets.JournalLister against the mirror.
func (r *SQLiteRepository) Entries(ctx context.Context) ([]core.JournalRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date_text, account, amount, notes FROM journal_entries
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	var out []core.JournalRow
	for rows.Next() {
		var row core.JournalRow
		if err := rows.Scan(&row.DateText, &row.Account, &row.Amount, &row.Notes); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Accounts lists the distinct account names seen in the mirror, keeping the
// spelling from each slot's first write.
func (r *SQLiteRepository) Accounts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT account FROM journal_entries
		GROUP BY account_key
		ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

// amountValue totals an amount cell. Formula text like "=40+15" is summed
// from its addends since the mirror never evaluates formulas.
func amountValue(amount string) float64 {
	amount = strings.TrimSpace(amount)
	if !strings.HasPrefix(amount, "=") {
		amt, err := core.ParseAmount(amount)
		if err != nil {
			return 0
		}
		f, _ := amt.Float64()
		return f
	}
	var items []core.LineItem
	for _, addend := range strings.Split(strings.TrimPrefix(amount, "="), "+") {
		items = append(items, core.LineItem{Amount: addend})
	}
	f, _ := core.SumAmounts(items).Float64()
	return f
}

// EntryCount reports the mirror size, used by the readiness probe.
func (r *SQLiteRepository) EntryCount(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return n, nil
}
