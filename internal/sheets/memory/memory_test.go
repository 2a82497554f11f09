package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

func TestUpsertCreatesThenUpdates(t *testing.T) {
	s := New(core.Suggestions{})
	ctx := context.Background()

	created, err := s.Upsert(ctx, "7/4/2025", "Food Expense", "40", "lunch")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("expected first upsert to create a row")
	}

	created, err = s.Upsert(ctx, "2025-07-04", " food expense ", "=40+15", "lunch, tea")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created {
		t.Fatal("expected second upsert to overwrite, slot resolves to the same row")
	}

	rec, err := s.Fetch(ctx, "07/04/2025", "FOOD EXPENSE")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if rec.Amount != "=40+15" || rec.Notes != "lunch, tea" {
		t.Fatalf("got %+v", rec)
	}
}

func TestFetchMissingSlot(t *testing.T) {
	s := New(core.Suggestions{})
	_, err := s.Fetch(context.Background(), "7/4/2025", "food expense")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertRejectsMissingFields(t *testing.T) {
	s := New(core.Suggestions{})
	_, err := s.Upsert(context.Background(), "7/4/2025", "", "40", "lunch")
	var missing *core.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "account" {
		t.Fatalf("field = %q", missing.Field)
	}
}

func TestFilterByMonthAndAccount(t *testing.T) {
	s := New(core.Suggestions{})
	ctx := context.Background()
	seed := []struct{ date, account, amount, notes string }{
		{"7/4/2025", "Food Expense", "=40+15", "lunch, tea"},
		{"7/10/2025", "Food Expense", "90", "groceries"},
		{"6/2/2025", "Food Expense", "25", "snacks"},
		{"7/4/2025", "Transport", "30", "bus"},
	}
	for _, r := range seed {
		if _, err := s.Upsert(ctx, r.date, r.account, r.amount, r.notes); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, err := s.Filter(ctx, 7, "food expense")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Date != "04-07-2025" || rows[0].Amount != 55 {
		t.Fatalf("first row = %+v", rows[0])
	}
	if rows[1].Date != "10-07-2025" || rows[1].Amount != 90 {
		t.Fatalf("second row = %+v", rows[1])
	}

	for _, month := range []int{-1, 13} {
		if _, err := s.Filter(ctx, month, "food expense"); err == nil {
			t.Errorf("Filter(month=%d) did not fail", month)
		}
	}
}

func TestSuggestionsDeduped(t *testing.T) {
	s := New(core.Suggestions{
		Accounts:  []string{"Food Expense", "Food Expense", " Transport "},
		FoodNames: []string{"tea", ""},
	})
	got, err := s.Suggestions(context.Background())
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(got.Accounts) != 2 || got.Accounts[1] != "Transport" {
		t.Fatalf("accounts = %v", got.Accounts)
	}
	if len(got.FoodNames) != 1 {
		t.Fatalf("foodNames = %v", got.FoodNames)
	}
}

func TestQuantities(t *testing.T) {
	s := New(core.Suggestions{})
	s.SetQuantities([]int{500, 100, 50}, []int{2, 5, 1})

	if err := s.UpdateQuantities(context.Background(), []int{3, 1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	notes, qty, err := s.FetchQuantities(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(notes) != 3 || notes[0] != 500 {
		t.Fatalf("notes = %v", notes)
	}
	want := []int{3, 1, 0}
	for i := range want {
		if qty[i] != want[i] {
			t.Fatalf("quantities = %v, want %v", qty, want)
		}
	}
}

func TestDashboard(t *testing.T) {
	s := New(core.Suggestions{})
	s.SetDashboard(core.Dashboard{Amounts: []float64{100, 200, 300, 400}, Variance: 12.5})

	if err := s.UpdateAmounts(context.Background(), []float64{110, 210}); err != nil {
		t.Fatalf("update: %v", err)
	}
	d, err := s.ReadDashboard(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if d.Amounts[0] != 110 || d.Amounts[1] != 210 || d.Amounts[2] != 300 {
		t.Fatalf("amounts = %v", d.Amounts)
	}
	if d.Variance != 12.5 {
		t.Fatalf("variance = %v", d.Variance)
	}
}
