package sheets

import (
	"context"
	"errors"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

// ErrUnsupported marks a port the selected backend cannot serve.
var ErrUnsupported = errors.New("operation not supported by this backend")

// Ports for outbound adapters.
type (
	// JournalStore is the slot-keyed journal table. Upsert overwrites the
	// record for a normalized (date, account) slot or appends a new one.
	// Fetch returns the stored notes/amount fields raw: when the amount cell
	// holds a formula the literal formula text comes back, never its
	// computed value, so the client can decode per-item amounts.
	JournalStore interface {
		Upsert(ctx context.Context, dateText, account, amount, note string) (created bool, err error)
		Fetch(ctx context.Context, dateText, account string) (core.StoredRecord, error)
	}

	// JournalLister dumps every journal row verbatim. The mirror worker uses
	// it for periodic resyncs.
	JournalLister interface {
		Entries(ctx context.Context) ([]core.JournalRow, error)
	}

	// SuggestionReader returns the autocomplete snapshot of known account
	// and item names.
	SuggestionReader interface {
		Suggestions(ctx context.Context) (core.Suggestions, error)
	}

	// EntryFilter lists journal rows for an account, optionally restricted
	// to a month (1-12; 0 means all months).
	EntryFilter interface {
		Filter(ctx context.Context, month int, account string) ([]core.FilterRow, error)
	}

	// QuantityStore backs the cash-in-hand counter: one row per bank note
	// denomination with its current quantity.
	QuantityStore interface {
		FetchQuantities(ctx context.Context) (bankNotes []int, quantities []int, err error)
		UpdateQuantities(ctx context.Context, quantities []int) error
	}

	// DashboardReader provides the account balances, variance and pie chart
	// series shown on the dashboard screen.
	DashboardReader interface {
		ReadDashboard(ctx context.Context) (core.Dashboard, error)
	}

	// DashboardWriter updates the editable agent balances.
	DashboardWriter interface {
		UpdateAmounts(ctx context.Context, amounts []float64) error
	}
)
