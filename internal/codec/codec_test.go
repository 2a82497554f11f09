package codec

import (
	"reflect"
	"testing"

	"github.com/fahad9993/expense-tracker-gsheet/internal/core"
)

func TestEncodeSingleItemBareLiteral(t *testing.T) {
	rec := Encode([]core.LineItem{{Note: "Rent", Amount: "5000"}})
	if rec.Notes != "Rent" || rec.Amount != "5000" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestEncodeMultipleItemsFormula(t *testing.T) {
	rec := Encode([]core.LineItem{
		{Note: "Bus", Amount: "40"},
		{Note: "Tea", Amount: "15"},
	})
	if rec.Notes != "Bus, Tea" {
		t.Fatalf("unexpected notes: %q", rec.Notes)
	}
	if rec.Amount != "=40+15" {
		t.Fatalf("unexpected amount: %q", rec.Amount)
	}
}

func TestEncodeEmpty(t *testing.T) {
	rec := Encode(nil)
	if rec.Notes != "" || rec.Amount != "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestDecodeFormula(t *testing.T) {
	got := Decode(core.StoredRecord{Notes: "Bus, Tea", Amount: "=40+15"})
	want := []core.LineItem{
		{Note: "Bus", Amount: "40"},
		{Note: "Tea", Amount: "15"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDecodeFormulaWithCurrencyFormatting(t *testing.T) {
	got := Decode(core.StoredRecord{Notes: "Lunch, Snacks", Amount: "=$ 250.00+$ 35.00"})
	want := []core.LineItem{
		{Note: "Lunch", Amount: "250"},
		{Note: "Snacks", Amount: "35"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDecodeLegacySingleValue(t *testing.T) {
	// The legacy format stores one bare value for several notes; the whole
	// amount belongs to the first note.
	got := Decode(core.StoredRecord{Notes: "A, B, C", Amount: "$ 900.00"})
	want := []core.LineItem{
		{Note: "A", Amount: "900"},
		{Note: "B", Amount: "0"},
		{Note: "C", Amount: "0"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDecodeSingleBareValue(t *testing.T) {
	got := Decode(core.StoredRecord{Notes: "Rent", Amount: "5000"})
	want := []core.LineItem{{Note: "Rent", Amount: "5000"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDecodeEmptyNotes(t *testing.T) {
	if got := Decode(core.StoredRecord{Notes: "", Amount: "100"}); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestDecodeShortFormulaPadsZero(t *testing.T) {
	got := Decode(core.StoredRecord{Notes: "A, B, C", Amount: "=10+20"})
	want := []core.LineItem{
		{Note: "A", Amount: "10"},
		{Note: "B", Amount: "20"},
		{Note: "C", Amount: "0"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDecodeSortsByNote(t *testing.T) {
	got := Decode(core.StoredRecord{Notes: "tea, Bus", Amount: "=15+40"})
	want := []core.LineItem{
		{Note: "Bus", Amount: "40"},
		{Note: "tea", Amount: "15"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]core.LineItem{
		{{Note: "Rent", Amount: "5000"}},
		{{Note: "Bus", Amount: "40"}, {Note: "Tea", Amount: "15"}},
		{{Note: "apple", Amount: "30"}, {Note: "Bread", Amount: "55"}, {Note: "curd", Amount: "90"}},
	}
	for i, items := range cases {
		sorted := append([]core.LineItem(nil), items...)
		core.SortItems(sorted)
		got := Decode(Encode(items))
		if !reflect.DeepEqual(got, sorted) {
			t.Fatalf("case %d: got %+v want %+v", i, got, sorted)
		}
	}
}
