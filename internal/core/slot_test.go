package core

import (
	"reflect"
	"testing"
	"time"
)

func TestCanonicalDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"7/4/2025", "7/4/2025"},
		{"07/04/2025", "7/4/2025"},
		{"2025-07-04", "7/4/2025"},
		{"04-07-2025", "7/4/2025"},
		{"July 4, 2025", "7/4/2025"},
		{" 12/31/2024 ", "12/31/2024"},
	}
	for _, tc := range cases {
		got, err := CanonicalDate(tc.in)
		if err != nil {
			t.Fatalf("CanonicalDate(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("CanonicalDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalDateSerial(t *testing.T) {
	// 45843 days after 1899-12-30 is 2025-07-05.
	got, err := CanonicalDate("45843")
	if err != nil {
		t.Fatalf("serial date: %v", err)
	}
	if got != "7/5/2025" {
		t.Fatalf("serial date = %q", got)
	}
}

func TestCanonicalDateErrors(t *testing.T) {
	if _, err := CanonicalDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
	if _, err := CanonicalDate("not a date"); err == nil {
		t.Fatalf("expected error for garbage")
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	d := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	s := FormatDate(d)
	back, err := ParseCanonicalDate(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip %v -> %q -> %v", d, s, back)
	}
}

func TestNormalizeAccount(t *testing.T) {
	if got := NormalizeAccount("  Food Expense "); got != "food expense" {
		t.Fatalf("got %q", got)
	}
}

func TestSortItems(t *testing.T) {
	items := []LineItem{
		{Note: "tea", Amount: "15"},
		{Note: "Bus", Amount: "40"},
		{Note: "apple", Amount: "30"},
	}
	SortItems(items)
	want := []LineItem{
		{Note: "apple", Amount: "30"},
		{Note: "Bus", Amount: "40"},
		{Note: "tea", Amount: "15"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("got %+v", items)
	}
}

func TestContainsNote(t *testing.T) {
	items := []LineItem{{Note: "Bus", Amount: "40"}}
	if !ContainsNote(items, "  bus ") {
		t.Fatalf("expected case-insensitive trimmed match")
	}
	if ContainsNote(items, "Tea") {
		t.Fatalf("unexpected match")
	}
}
