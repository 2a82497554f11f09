package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/fahad9993/expense-tracker-gsheet/internal/amqp"
	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

type fakeMirror struct {
	entries map[string]core.JournalRow
	failOn  string
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{entries: map[string]core.JournalRow{}}
}

func (f *fakeMirror) Upsert(_ context.Context, dateText, account, amount, note string) (bool, error) {
	if account == f.failOn {
		return false, errors.New("boom")
	}
	slot, err := core.Slot{DateText: dateText, Account: account}.Normalized()
	if err != nil {
		return false, err
	}
	key := slot.DateText + "|" + slot.Account
	_, exists := f.entries[key]
	f.entries[key] = core.JournalRow{DateText: dateText, Account: account, Amount: amount, Notes: note}
	return !exists, nil
}

func (f *fakeMirror) EntryCount(context.Context) (int64, error) {
	return int64(len(f.entries)), nil
}

type fakeLister struct {
	rows []core.JournalRow
	err  error
}

func (f *fakeLister) Entries(context.Context) ([]core.JournalRow, error) {
	return f.rows, f.err
}

func TestHandleUpsertMessage(t *testing.T) {
	mirror := newFakeMirror()
	w := NewMirrorWorker(mirror, &fakeLister{})

	msg := amqp.NewEntryUpsertMessage("7/4/2025", "Food Expense", "=40+15", "lunch, tea", true)
	if err := w.HandleUpsertMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if n, _ := mirror.EntryCount(context.Background()); n != 1 {
		t.Fatalf("mirror size = %d, want 1", n)
	}
}

func TestHandleUpsertMessageError(t *testing.T) {
	mirror := newFakeMirror()
	mirror.failOn = "Food Expense"
	w := NewMirrorWorker(mirror, &fakeLister{})

	msg := amqp.NewEntryUpsertMessage("7/4/2025", "Food Expense", "40", "lunch", true)
	if err := w.HandleUpsertMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error to propagate for requeue")
	}
}

func TestResyncAppliesAllRows(t *testing.T) {
	mirror := newFakeMirror()
	lister := &fakeLister{rows: []core.JournalRow{
		{DateText: "7/4/2025", Account: "Food Expense", Amount: "=40+15", Notes: "lunch, tea"},
		{DateText: "7/10/2025", Account: "Transport", Amount: "30", Notes: "bus"},
		{DateText: "7/4/2025", Account: "food expense", Amount: "=40+15+5", Notes: "lunch, tea, gum"},
	}}
	w := NewMirrorWorker(mirror, lister)

	if err := w.Resync(context.Background()); err != nil {
		t.Fatalf("resync: %v", err)
	}
	// Third row collapses into the first slot.
	if n, _ := mirror.EntryCount(context.Background()); n != 2 {
		t.Fatalf("mirror size = %d, want 2", n)
	}
}

func TestResyncSkipsBadRows(t *testing.T) {
	mirror := newFakeMirror()
	lister := &fakeLister{rows: []core.JournalRow{
		{DateText: "not a date", Account: "Food Expense", Amount: "40", Notes: "lunch"},
		{DateText: "7/10/2025", Account: "Transport", Amount: "30", Notes: "bus"},
	}}
	w := NewMirrorWorker(mirror, lister)

	if err := w.Resync(context.Background()); err != nil {
		t.Fatalf("resync: %v", err)
	}
	if n, _ := mirror.EntryCount(context.Background()); n != 1 {
		t.Fatalf("mirror size = %d, want 1", n)
	}
}

func TestResyncListError(t *testing.T) {
	w := NewMirrorWorker(newFakeMirror(), &fakeLister{err: errors.New("api down")})
	if err := w.Resync(context.Background()); err == nil {
		t.Fatal("expected error when listing fails")
	}
}
