package services

import (
	"context"
	"errors"
	"testing"

	"github.com/fahad9993/expense-tracker-gsheet/internal/amqp"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	"github.com/fahad9993/expense-tracker-gsheet/internal/sheets/memory"
)

type fakePublisher struct {
	published []*amqp.EntryUpsertMessage
	err       error
	closed    bool
}

func (f *fakePublisher) PublishEntryUpsert(_ context.Context, msg *amqp.EntryUpsertMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestUpsertPublishesMessage(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewJournalService(memory.New(core.Suggestions{}), pub)

	created, err := svc.Upsert(context.Background(), "7/4/2025", "Food Expense", "=40+15", "lunch, tea")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatal("expected created")
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.published))
	}
	msg := pub.published[0]
	if msg.Account != "Food Expense" || msg.Amount != "=40+15" || !msg.Created {
		t.Fatalf("message = %+v", msg)
	}
}

func TestUpsertValidationOrder(t *testing.T) {
	svc := NewJournalService(memory.New(core.Suggestions{}), nil)

	tests := []struct {
		name                  string
		date, account, amount string
		wantField             string
	}{
		{"missing date", "", "Food Expense", "40", "date"},
		{"missing account", "7/4/2025", "", "40", "account"},
		{"missing amount", "7/4/2025", "Food Expense", "", "amount"},
		{"all missing reports date first", "", "", "", "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), tt.date, tt.account, tt.amount, "note")
			var missing *core.MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingFieldError, got %v", err)
			}
			if missing.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", missing.Field, tt.wantField)
			}
		})
	}
}

func TestUpsertSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	store := memory.New(core.Suggestions{})
	svc := NewJournalService(store, pub)

	if _, err := svc.Upsert(context.Background(), "7/4/2025", "Food Expense", "40", "lunch"); err != nil {
		t.Fatalf("upsert should not fail on publish error: %v", err)
	}
	if _, err := store.Fetch(context.Background(), "7/4/2025", "food expense"); err != nil {
		t.Fatalf("entry should still be written: %v", err)
	}
}

func TestFetchPassesThrough(t *testing.T) {
	store := memory.New(core.Suggestions{})
	svc := NewJournalService(store, nil)

	if _, err := svc.Fetch(context.Background(), "7/4/2025", "food expense"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Upsert(context.Background(), "7/4/2025", "Food Expense", "40", "lunch"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rec, err := svc.Fetch(context.Background(), "2025-07-04", "FOOD EXPENSE")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if rec.Amount != "40" || rec.Notes != "lunch" {
		t.Fatalf("got %+v", rec)
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewJournalService(memory.New(core.Suggestions{}), pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !pub.closed {
		t.Fatal("publisher not closed")
	}
}
