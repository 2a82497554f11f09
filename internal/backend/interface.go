package backend

import (
	"context"

	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets"
)

// Backend bundles every port the HTTP server needs. Adapters that cannot
// serve a port (the SQLite mirror has no dashboard or cash-count data) return
// sheets.ErrUnsupported from those methods.
type Backend interface {
	sheets.JournalStore
	sheets.JournalLister
	sheets.SuggestionReader
	sheets.EntryFilter
	sheets.QuantityStore
	sheets.DashboardReader
	sheets.DashboardWriter
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
