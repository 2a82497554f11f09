// Slot normalization shared by every read and write path. The server, the
// sheet adapters and the SQLite mirror all call these functions so a record
// written through one path is always found again through another.
package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// canonicalDateLayout renders dates without zero padding, e.g. "7/4/2025".
const canonicalDateLayout = "1/2/2006"

// dateInputLayouts are the textual date renderings accepted from clients and
// from spreadsheet cells.
var dateInputLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2-1-2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// sheetEpoch is day zero of spreadsheet serial dates (1899-12-30).
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// CanonicalDate reformats a date string into the single canonical textual
// form used for slot matching. Spreadsheet serial numbers are accepted too,
// since some backends hand back the raw cell value.
func CanonicalDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &MissingFieldError{Field: "date"}
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t := sheetEpoch.AddDate(0, 0, int(serial))
		return t.Format(canonicalDateLayout), nil
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// FormatDate renders a time in the canonical slot date form.
func FormatDate(t time.Time) string {
	return t.Format(canonicalDateLayout)
}

// ParseCanonicalDate is the inverse of FormatDate.
func ParseCanonicalDate(s string) (time.Time, error) {
	return time.Parse(canonicalDateLayout, strings.TrimSpace(s))
}

// NormalizeAccount lowers and trims an account name for matching.
func NormalizeAccount(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SortItems orders items by note, ascending and case-insensitive. This is
// the canonical working-set order and also the order of addends in the
// encoded sum formula.
func SortItems(items []LineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(strings.TrimSpace(items[i].Note)) <
			strings.ToLower(strings.TrimSpace(items[j].Note))
	})
}

// ContainsNote reports whether an item with the same note already exists,
// comparing case-insensitively on trimmed notes.
func ContainsNote(items []LineItem, note string) bool {
	want := strings.ToLower(strings.TrimSpace(note))
	for _, it := range items {
		if strings.ToLower(strings.TrimSpace(it.Note)) == want {
			return true
		}
	}
	return false
}
