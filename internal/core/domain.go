package core

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// LineItem is one (note, amount) pair of a journal entry. It exists only
	// within a composition session; the persisted form is StoredRecord.
	LineItem struct {
		Note   string
		Amount string
	}

	// StoredRecord is the persisted representation of a journal slot. Notes is
	// a comma-and-space-joined list; Amount is either a bare numeric literal
	// (single item) or a sum formula like "=40+15" (multiple items).
	StoredRecord struct {
		Notes  string `json:"notes"`
		Amount string `json:"amount"`
	}

	// Slot identifies at most one stored journal record.
	Slot struct {
		DateText string
		Account  string
	}

	// Suggestions is the read-only autocomplete snapshot from the Accounts sheet.
	Suggestions struct {
		Accounts   []string `json:"accounts"`
		FoodNames  []string `json:"foodNames"`
		OtherItems []string `json:"otherItems"`
	}

	// JournalRow is one raw journal line as stored, formula text intact.
	JournalRow struct {
		DateText string `json:"date"`
		Account  string `json:"account"`
		Amount   string `json:"amount"`
		Notes    string `json:"notes"`
	}

	// FilterRow is one row of a filtered journal listing.
	FilterRow struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
		Notes  string  `json:"notes"`
	}

	// PieSlice is one account's share of the dashboard pie chart.
	PieSlice struct {
		Label        string  `json:"label"`
		Value        float64 `json:"value"`
		CurrentValue float64 `json:"currentValue"`
	}

	// Dashboard carries the agent balances, the reconciliation variance and
	// the per-account pie chart series.
	Dashboard struct {
		Amounts  []float64  `json:"amounts"`
		Variance float64    `json:"variance"`
		Pie      []PieSlice `json:"pieChart"`
	}
)

var (
	ErrNotFound         = errors.New("entry not found")
	ErrDuplicateItem    = errors.New("duplicate item note")
	ErrInvalidAccount   = errors.New("account not in known account list")
	ErrUncommittedDraft = errors.New("draft item not added to working set")
	ErrSessionExpired   = errors.New("session expired")
)

// MissingFieldError reports which required field was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Validate checks that the item carries a usable note and amount.
func (it LineItem) Validate() error {
	if strings.TrimSpace(it.Note) == "" {
		return &MissingFieldError{Field: "note"}
	}
	if strings.TrimSpace(it.Amount) == "" {
		return &MissingFieldError{Field: "amount"}
	}
	if !IsNumeric(it.Amount) {
		return fmt.Errorf("invalid amount %q", it.Amount)
	}
	return nil
}

// Normalized returns the slot with both fields in canonical matching form.
// The date is reformatted to the canonical textual form and the account is
// trimmed and lower-cased, so slots differing only by case, whitespace or
// date rendering compare equal.
func (s Slot) Normalized() (Slot, error) {
	date, err := CanonicalDate(s.DateText)
	if err != nil {
		return Slot{}, err
	}
	return Slot{DateText: date, Account: NormalizeAccount(s.Account)}, nil
}

// Equal reports whether two already-normalized slots identify the same record.
func (s Slot) Equal(o Slot) bool {
	return s.DateText == o.DateText && s.Account == o.Account
}
