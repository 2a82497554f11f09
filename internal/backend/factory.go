package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fahad9993/expense-tracker-gsheet/internal/adapters"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	gsheet "github.com/fahad9993/expense-tracker-gsheet/internal/sheets/google"
	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets/memory"
	"github.com/fahad9993/expense-tracker-gsheet/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: adapters.NewSQLiteAdapter(repo),
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context) (*BackendResult, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")

	return &BackendResult{
		Backend: cli,
		Cleanup: nil, // No cleanup needed for sheets backend
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	// Seeded for local development so the UI has something to show.
	store := memory.New(core.Suggestions{
		Accounts:   []string{"Food Expense", "Transport", "House Rent", "Mobile Recharge"},
		FoodNames:  []string{"Rice", "Egg", "Milk", "Tea"},
		OtherItems: []string{"Bus fare", "Soap", "Notebook"},
	})
	store.SetQuantities(
		[]int{1000, 500, 200, 100, 50, 20, 10, 5, 2},
		[]int{0, 0, 0, 0, 0, 0, 0, 0, 0},
	)
	store.SetDashboard(core.Dashboard{Amounts: []float64{0, 0, 0, 0}})

	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Backend: store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
