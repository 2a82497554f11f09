package core

import (
	"errors"
	"testing"
)

func TestLineItemValidate(t *testing.T) {
	good := LineItem{Note: "Bus", Amount: "40"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	var mf *MissingFieldError
	if err := (LineItem{Note: "", Amount: "40"}).Validate(); !errors.As(err, &mf) || mf.Field != "note" {
		t.Fatalf("expected missing note, got %v", err)
	}
	if err := (LineItem{Note: "Bus", Amount: " "}).Validate(); !errors.As(err, &mf) || mf.Field != "amount" {
		t.Fatalf("expected missing amount, got %v", err)
	}
	if err := (LineItem{Note: "Bus", Amount: "4x"}).Validate(); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func TestSlotNormalized(t *testing.T) {
	s, err := Slot{DateText: "2025-07-04", Account: " Food Expense "}.Normalized()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if s.DateText != "7/4/2025" || s.Account != "food expense" {
		t.Fatalf("unexpected slot: %+v", s)
	}

	other, err := Slot{DateText: "7/4/2025", Account: "FOOD EXPENSE"}.Normalized()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !s.Equal(other) {
		t.Fatalf("expected slots to match: %+v vs %+v", s, other)
	}
}

func TestSlotNormalizedRejectsBadDate(t *testing.T) {
	if _, err := (Slot{DateText: "yesterday", Account: "cash"}).Normalized(); err == nil {
		t.Fatalf("expected error for unparseable date")
	}
}
