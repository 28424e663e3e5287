package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-31", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-1-5", false},
		{"31/01/2025", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: expected ok, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestMonthKey(t *testing.T) {
	if k := Date("2025-03-15").MonthKey(); k != "2025-03" {
		t.Fatalf("expected 2025-03, got %q", k)
	}
	if k := Date("").MonthKey(); k != "" {
		t.Fatalf("expected empty key, got %q", k)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		month string
		days  int
	}{
		{"2025-01", 31},
		{"2025-02", 28},
		{"2024-02", 29},
		{"2025-04", 30},
		{"not-a-month", 0},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.month); got != tc.days {
			t.Fatalf("%s: expected %d days, got %d", tc.month, tc.days, got)
		}
	}
}

func TestAddDaysAndDaysUntil(t *testing.T) {
	d := Date("2025-03-15")
	if got := d.AddDays(-3); got != "2025-03-12" {
		t.Fatalf("expected 2025-03-12, got %q", got)
	}
	if got := Date("2025-03-12").DaysUntil(d); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
}
