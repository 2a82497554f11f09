package core

import "testing"

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"40", "40"},
		{"$ 900.00", "900"},
		{"1,900.50", "1900.50"},
		{"BDT 120", "120"},
		{" 15 ", "15"},
	}
	for _, tc := range cases {
		if got := NormalizeAmount(tc.in); got != tc.want {
			t.Fatalf("NormalizeAmount(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric("12.5") || !IsNumeric(" 40 ") {
		t.Fatalf("expected numeric")
	}
	if IsNumeric("") || IsNumeric("12x") {
		t.Fatalf("expected non-numeric")
	}
}

func TestSumAmounts(t *testing.T) {
	total := SumAmounts([]LineItem{
		{Note: "a", Amount: "40"},
		{Note: "b", Amount: "$ 15.00"},
		{Note: "c", Amount: "junk"},
	})
	if total.String() != "55" {
		t.Fatalf("total = %s", total)
	}
}
