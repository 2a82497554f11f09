package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
	ports "github.com/fahad9993/expense-tracker-gsheet/internal/sheets"
)

// Ensure interface conformance
var (
	_ ports.JournalStore     = (*Store)(nil)
	_ ports.JournalLister    = (*Store)(nil)
	_ ports.SuggestionReader = (*Store)(nil)
	_ ports.EntryFilter      = (*Store)(nil)
	_ ports.QuantityStore    = (*Store)(nil)
	_ ports.DashboardReader  = (*Store)(nil)
	_ ports.DashboardWriter  = (*Store)(nil)
)

// Store is an in-memory journal backend for development and tests. It keeps
// raw notes/amount strings verbatim, including formula text, so it behaves
// like the spreadsheet for fetch-and-decode flows.
type Store struct {
	mu          sync.Mutex
	rows        []row
	suggestions core.Suggestions
	bankNotes   []int
	quantities  []int
	dashboard   core.Dashboard
}

type row struct {
	dateText string // as written, not normalized
	account  string
	amount   string
	notes    string
}

func New(suggestions core.Suggestions) *Store {
	return &Store{suggestions: dedupe(suggestions)}
}

// Upsert implements sheets.JournalStore.
func (s *Store) Upsert(_ context.Context, dateText, account, amount, note string) (bool, error) {
	if err := requireFields(dateText, account, amount); err != nil {
		return false, err
	}
	target, err := core.Slot{DateText: dateText, Account: account}.Normalized()
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.matches(s.rows[i], target) {
			s.rows[i].amount = amount
			s.rows[i].notes = note
			return false, nil
		}
	}
	s.rows = append(s.rows, row{dateText: dateText, account: account, amount: amount, notes: note})
	return true, nil
}

// Fetch implements sheets.JournalStore.
func (s *Store) Fetch(_ context.Context, dateText, account string) (core.StoredRecord, error) {
	target, err := core.Slot{DateText: dateText, Account: account}.Normalized()
	if err != nil {
		return core.StoredRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if s.matches(r, target) {
			return core.StoredRecord{Notes: r.notes, Amount: r.amount}, nil
		}
	}
	return core.StoredRecord{}, core.ErrNotFound
}

func (s *Store) matches(r row, target core.Slot) bool {
	stored, err := core.Slot{DateText: r.dateText, Account: r.account}.Normalized()
	if err != nil {
		return false
	}
	return stored.Equal(target)
}

// Entries implements sheets.JournalLister.
func (s *Store) Entries(_ context.Context) ([]core.JournalRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.JournalRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, core.JournalRow{
			DateText: r.dateText,
			Account:  r.account,
			Amount:   r.amount,
			Notes:    r.notes,
		})
	}
	return out, nil
}

// Suggestions implements sheets.SuggestionReader.
func (s *Store) Suggestions(_ context.Context) (core.Suggestions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Suggestions{
		Accounts:   append([]string(nil), s.suggestions.Accounts...),
		FoodNames:  append([]string(nil), s.suggestions.FoodNames...),
		OtherItems: append([]string(nil), s.suggestions.OtherItems...),
	}, nil
}

// Filter implements sheets.EntryFilter.
func (s *Store) Filter(_ context.Context, month int, account string) ([]core.FilterRow, error) {
	if month < 0 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.FilterRow
	for _, r := range s.rows {
		if !strings.EqualFold(strings.TrimSpace(r.account), strings.TrimSpace(account)) {
			continue
		}
		canonical, err := core.CanonicalDate(r.dateText)
		if err != nil {
			continue
		}
		d, err := core.ParseCanonicalDate(canonical)
		if err != nil {
			continue
		}
		if month != 0 && int(d.Month()) != month {
			continue
		}
		var f float64
		if strings.HasPrefix(strings.TrimSpace(r.amount), "=") {
			// Formula cells contribute the sum of their addends.
			f, _ = core.SumAmounts(formulaItems(r.amount)).Float64()
		} else if amt, err := core.ParseAmount(r.amount); err == nil {
			f, _ = amt.Float64()
		}
		out = append(out, core.FilterRow{
			Date:   d.Format("02-01-2006"),
			Amount: f,
			Notes:  r.notes,
		})
	}
	return out, nil
}

// formulaItems splits a formula amount into pseudo-items for totaling.
func formulaItems(amount string) []core.LineItem {
	amount = strings.TrimPrefix(strings.TrimSpace(amount), "=")
	var items []core.LineItem
	for _, addend := range strings.Split(amount, "+") {
		items = append(items, core.LineItem{Amount: addend})
	}
	return items
}

// SetQuantities seeds the cash-in-hand table.
func (s *Store) SetQuantities(bankNotes, quantities []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankNotes = append([]int(nil), bankNotes...)
	s.quantities = append([]int(nil), quantities...)
}

// FetchQuantities implements sheets.QuantityStore.
func (s *Store) FetchQuantities(_ context.Context) ([]int, []int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.bankNotes...), append([]int(nil), s.quantities...), nil
}

// UpdateQuantities implements sheets.QuantityStore.
func (s *Store) UpdateQuantities(_ context.Context, quantities []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.quantities {
		if i < len(quantities) {
			s.quantities[i] = quantities[i]
		} else {
			s.quantities[i] = 0
		}
	}
	return nil
}

// SetDashboard seeds the dashboard data.
func (s *Store) SetDashboard(d core.Dashboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard = d
}

// ReadDashboard implements sheets.DashboardReader.
func (s *Store) ReadDashboard(_ context.Context) (core.Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Dashboard{
		Amounts:  append([]float64(nil), s.dashboard.Amounts...),
		Variance: s.dashboard.Variance,
		Pie:      append([]core.PieSlice(nil), s.dashboard.Pie...),
	}, nil
}

// UpdateAmounts implements sheets.DashboardWriter.
func (s *Store) UpdateAmounts(_ context.Context, amounts []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < len(amounts) && i < len(s.dashboard.Amounts); i++ {
		s.dashboard.Amounts[i] = amounts[i]
	}
	return nil
}

func requireFields(dateText, account, amount string) error {
	switch {
	case strings.TrimSpace(dateText) == "":
		return &core.MissingFieldError{Field: "date"}
	case strings.TrimSpace(account) == "":
		return &core.MissingFieldError{Field: "account"}
	case strings.TrimSpace(amount) == "":
		return &core.MissingFieldError{Field: "amount"}
	}
	return nil
}

func dedupe(in core.Suggestions) core.Suggestions {
	return core.Suggestions{
		Accounts:   dedupeList(in.Accounts),
		FoodNames:  dedupeList(in.FoodNames),
		OtherItems: dedupeList(in.OtherItems),
	}
}

func dedupeList(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
