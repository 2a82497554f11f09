// Package codec converts between in-memory line items and the stored journal
// record format. The same code runs on both sides of the wire: the client
// decodes fetched records into editable items and encodes the working set on
// submit, the server and mirror worker decode stored records for listings.
//
// The stored format packs all items of a (date, account) slot into one row:
// notes are joined with ", " and amounts are summed with a spreadsheet
// formula ("=40+15") so the sheet itself still shows the slot total.
package codec

import (
	"strings"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

// Encode serializes items into the stored record shape. A single item keeps
// its bare amount; two or more items become a sum formula with one addend
// per item, in the same order as the joined notes.
func Encode(items []core.LineItem) core.StoredRecord {
	notes := make([]string, len(items))
	for i, it := range items {
		notes[i] = strings.TrimSpace(it.Note)
	}
	rec := core.StoredRecord{Notes: strings.Join(notes, ", ")}

	switch len(items) {
	case 0:
	case 1:
		rec.Amount = strings.TrimSpace(items[0].Amount)
	default:
		amounts := make([]string, len(items))
		for i, it := range items {
			amounts[i] = strings.TrimSpace(it.Amount)
		}
		rec.Amount = "=" + strings.Join(amounts, "+")
	}
	return rec
}

// Decode recovers line items from a stored record. The amount field may hold
// a sum formula, a bare literal, or a currency-formatted string; formatting
// is stripped per addend. When a bare literal coexists with several notes
// (the legacy single-value form), the whole value is attributed to the first
// note and the rest get "0". That form is decoded for backward compatibility
// but never produced by Encode.
func Decode(rec core.StoredRecord) []core.LineItem {
	if strings.TrimSpace(rec.Notes) == "" {
		return nil
	}

	rawNotes := strings.Split(rec.Notes, ",")
	notes := make([]string, 0, len(rawNotes))
	for _, n := range rawNotes {
		notes = append(notes, strings.TrimSpace(n))
	}

	var amounts []string
	if formula, ok := strings.CutPrefix(strings.TrimSpace(rec.Amount), "="); ok {
		for _, addend := range strings.Split(formula, "+") {
			amounts = append(amounts, core.NormalizeAmount(addend))
		}
	} else {
		// Legacy bare value: only the first note carries the amount.
		amounts = make([]string, len(notes))
		amounts[0] = core.NormalizeAmount(rec.Amount)
		for i := 1; i < len(amounts); i++ {
			amounts[i] = "0"
		}
	}

	items := make([]core.LineItem, len(notes))
	for i, note := range notes {
		amount := "0"
		if i < len(amounts) && amounts[i] != "" {
			amount = amounts[i]
		}
		items[i] = core.LineItem{Note: note, Amount: amount}
	}
	if len(items) > 1 {
		core.SortItems(items)
	}
	return items
}
