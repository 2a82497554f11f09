package adapters

import (
	"context"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets"
	"github.com/fahad9993/expense-tracker-gsheet/internal/storage"
)

// SQLiteAdapter serves the backend ports from the local mirror. Journal
// reads, writes and filtering work offline; suggestions degrade to the
// account names seen so far, and the dashboard and cash-count ports are
// unavailable because the mirror only holds journal rows.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository) *SQLiteAdapter {
	return &SQLiteAdapter{storage: storage}
}

// Upsert implements sheets.JournalStore
func (a *SQLiteAdapter) Upsert(ctx context.Context, dateText, account, amount, note string) (bool, error) {
	return a.storage.Upsert(ctx, dateText, account, amount, note)
}

// Fetch implements sheets.JournalStore
func (a *SQLiteAdapter) Fetch(ctx context.Context, dateText, account string) (core.StoredRecord, error) {
	return a.storage.Fetch(ctx, dateText, account)
}

// Entries implements sheets.JournalLister
func (a *SQLiteAdapter) Entries(ctx context.Context) ([]core.JournalRow, error) {
	return a.storage.Entries(ctx)
}

// Filter implements sheets.EntryFilter
func (a *SQLiteAdapter) Filter(ctx context.Context, month int, account string) ([]core.FilterRow, error) {
	return a.storage.Filter(ctx, month, account)
}

// Suggestions implements sheets.SuggestionReader
func (a *SQLiteAdapter) Suggestions(ctx context.Context) (core.Suggestions, error) {
	accounts, err := a.storage.Accounts(ctx)
	if err != nil {
		return core.Suggestions{}, err
	}
	return core.Suggestions{Accounts: accounts}, nil
}

// FetchQuantities implements sheets.QuantityStore
func (a *SQLiteAdapter) FetchQuantities(ctx context.Context) ([]int, []int, error) {
	return nil, nil, sheets.ErrUnsupported
}

// UpdateQuantities implements sheets.QuantityStore
func (a *SQLiteAdapter) UpdateQuantities(ctx context.Context, quantities []int) error {
	return sheets.ErrUnsupported
}

// ReadDashboard implements sheets.DashboardReader
func (a *SQLiteAdapter) ReadDashboard(ctx context.Context) (core.Dashboard, error) {
	return core.Dashboard{}, sheets.ErrUnsupported
}

// UpdateAmounts implements sheets.DashboardWriter
func (a *SQLiteAdapter) UpdateAmounts(ctx context.Context, amounts []float64) error {
	return sheets.ErrUnsupported
}
