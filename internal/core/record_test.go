package core

import (
	"encoding/json"
	"testing"
)

func TestNewRecordGeneratesUniqueIDs(t *testing.T) {
	a := NewRecord("2025-01-01", CategoryGas, AmountFromFloat(10), "")
	b := NewRecord("2025-01-01", CategoryGas, AmountFromFloat(10), "")
	if a.ID == "" || b.ID == "" {
		t.Fatalf("expected non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both were %q", a.ID)
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{ID: "r1", Date: "2025-03-01", Category: CategoryRent, Amount: AmountFromFloat(850)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		r    Record
	}{
		{"empty id", Record{Date: "2025-03-01", Category: CategoryGas, Amount: AmountFromFloat(1)}},
		{"bad date", Record{ID: "r", Date: "03/01/2025", Category: CategoryGas, Amount: AmountFromFloat(1)}},
		{"negative amount", Record{ID: "r", Date: "2025-03-01", Category: CategoryGas, Amount: AmountFromFloat(-1)}},
		{"negative remind days", Record{ID: "r", Date: "2025-03-01", Category: CategoryGas, Amount: AmountFromFloat(1), RemindDays: -2}},
		{"bad due date", Record{ID: "r", Date: "2025-03-01", Category: CategoryGas, Amount: AmountFromFloat(1), DueDate: "soon"}},
		{"paid without paid date", Record{ID: "r", Date: "2025-03-01", Category: CategoryGas, Amount: AmountFromFloat(1), Paid: true}},
	}
	for _, tc := range cases {
		if err := tc.r.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestMarkPaidDefaultsPaidDate(t *testing.T) {
	r := Record{ID: "r1", Date: "2025-03-01", Category: CategoryRent, Amount: AmountFromFloat(850), Note: "marzo"}
	r.MarkPaid("2025-03-10")

	if !r.Paid {
		t.Fatal("expected paid")
	}
	if r.PaidDate != "2025-03-10" {
		t.Fatalf("expected paid date defaulted to today, got %q", r.PaidDate)
	}
	if r.Note != "marzo" || r.Amount.Fixed2() != "850.00" || r.Date != "2025-03-01" {
		t.Fatal("other fields must be left unchanged")
	}

	// An explicit paid date survives.
	r2 := Record{ID: "r2", Date: "2025-03-01", Category: CategoryGas, Amount: AmountFromFloat(40), PaidDate: "2025-03-05"}
	r2.MarkPaid("2025-03-10")
	if r2.PaidDate != "2025-03-05" {
		t.Fatalf("expected explicit paid date kept, got %q", r2.PaidDate)
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	r := Record{
		ID:         "abc",
		Date:       "2025-03-15",
		Category:   "Vacanze", // unknown categories round-trip verbatim
		Amount:     mustAmount(t, "12.345"),
		Note:       "hotel",
		DueDate:    "2025-03-20",
		RemindDays: 3,
		Paid:       true,
		PaidDate:   "2025-03-18",
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != r.ID || back.Date != r.Date || back.Category != r.Category ||
		back.Note != r.Note || back.DueDate != r.DueDate || back.RemindDays != r.RemindDays ||
		back.Paid != r.Paid || back.PaidDate != r.PaidDate {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, r)
	}
	if back.Amount.Cmp(r.Amount) != 0 {
		t.Fatalf("amount precision lost: %s vs %s", back.Amount, r.Amount)
	}
}

func TestAmountMarshalsAsNumber(t *testing.T) {
	data, err := json.Marshal(mustAmount(t, "40"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "40" {
		t.Fatalf("expected bare number, got %s", data)
	}
}

func mustAmount(t *testing.T, s string) Amount {
	t.Helper()
	a, err := ParseAmount(s)
	if err != nil {
		t.Fatalf("parse amount %q: %v", s, err)
	}
	return a
}
