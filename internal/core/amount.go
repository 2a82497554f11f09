// Amount handling for journal entries.
//
// Amounts travel as decimal strings end to end: the spreadsheet is the system
// of record and a cell may hold currency formatting ("$ 900.00") or a formula
// addend, so parsing to a number happens as late as possible.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeAmount strips currency symbols and formatting from a raw cell
// value or formula addend, leaving digits and at most a decimal point, then
// drops a trailing ".00". "$ 1,900.00" becomes "1900".
func NormalizeAmount(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	out = strings.TrimSuffix(out, ".00")
	return out
}

// IsNumeric reports whether s parses as a decimal number.
func IsNumeric(s string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil
}

// ParseAmount parses a raw amount string, tolerating currency formatting.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(NormalizeAmount(s)))
}

// SumAmounts totals the item amounts. Unparseable amounts count as zero;
// the spreadsheet is full of hand-entered values and a listing total is
// best-effort.
func SumAmounts(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if d, err := ParseAmount(it.Amount); err == nil {
			total = total.Add(d)
		}
	}
	return total
}
