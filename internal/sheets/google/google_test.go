package google

import "testing"

func TestToFloat(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"numeric string", " 40.25 ", 40.25},
		{"garbage string", "n/a", 0},
		{"nil", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := toFloat(tc.in); got != tc.want {
				t.Fatalf("toFloat(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSafeGet(t *testing.T) {
	arr := []string{"a", "b"}
	if got := safeGet(arr, 1); got != "b" {
		t.Fatalf("got %q", got)
	}
	if got := safeGet(arr, 5); got != "" {
		t.Fatalf("out of range returned %q", got)
	}
	if got := safeGet(arr, -1); got != "" {
		t.Fatalf("negative index returned %q", got)
	}
}

func TestToStringsTrims(t *testing.T) {
	got := toStrings([]any{" 7/4/2025 ", 42, "  Food Expense"})
	want := []string{"7/4/2025", "42", "Food Expense"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
