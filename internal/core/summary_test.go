package core

import "testing"

func TestSummarize(t *testing.T) {
	records := []Record{
		{ID: "a", Date: "2025-01-05", Category: CategoryGas, Amount: AmountFromFloat(40)},
		{ID: "b", Date: "2025-01-20", Category: CategoryRent, Amount: AmountFromFloat(850), Paid: true, PaidDate: "2025-01-21"},
		{ID: "c", Date: "2025-01-25", Category: CategoryGas, Amount: AmountFromFloat(22)},
		{ID: "d", Date: "2025-02-03", Category: CategoryWater, Amount: AmountFromFloat(30)},
	}
	present := map[string]struct{}{"b": {}, "d": {}}

	s := Summarize(records, "2025-01", present)

	if s.Total.Fixed2() != "912.00" {
		t.Fatalf("expected total 912.00, got %s", s.Total.Fixed2())
	}
	// 912 / 31 days
	if s.AveragePerDay.Fixed2() != "29.42" {
		t.Fatalf("expected average 29.42, got %s", s.AveragePerDay.Fixed2())
	}
	if s.TopCategory != CategoryRent {
		t.Fatalf("expected top category Rent, got %q", s.TopCategory)
	}
	if s.PaidCount != 1 || s.UnpaidCount != 2 {
		t.Fatalf("expected paid/unpaid 1/2, got %d/%d", s.PaidCount, s.UnpaidCount)
	}
	// d has a receipt but is out of month.
	if s.WithReceiptCount != 1 {
		t.Fatalf("expected 1 receipt in month, got %d", s.WithReceiptCount)
	}
	if len(s.ByCategory) != len(Categories()) {
		t.Fatalf("expected zero-filled breakdown over %d categories, got %d", len(Categories()), len(s.ByCategory))
	}
	for _, ca := range s.ByCategory {
		switch ca.Category {
		case CategoryGas:
			if ca.Amount.Fixed2() != "62.00" {
				t.Fatalf("expected Gas 62.00, got %s", ca.Amount.Fixed2())
			}
		case CategoryWater:
			if !ca.Amount.IsZero() {
				t.Fatalf("expected Water zero-filled in january, got %s", ca.Amount.Fixed2())
			}
		}
	}
}

func TestSummarizeEmptyMonth(t *testing.T) {
	s := Summarize(sampleRecords(), "2030-06", nil)
	if !s.Total.IsZero() || !s.AveragePerDay.IsZero() {
		t.Fatalf("expected zero total and average, got %s / %s", s.Total.Fixed2(), s.AveragePerDay.Fixed2())
	}
	if s.TopCategory != "" {
		t.Fatalf("expected no top category, got %q", s.TopCategory)
	}
	if len(s.ByCategory) != len(Categories()) {
		t.Fatal("breakdown must stay zero-filled for an empty month")
	}
}

func TestSummarizeTopCategoryTieBreaksOnFirstEncounter(t *testing.T) {
	records := []Record{
		{ID: "a", Date: "2025-01-05", Category: CategoryWater, Amount: AmountFromFloat(50)},
		{ID: "b", Date: "2025-01-06", Category: CategoryGas, Amount: AmountFromFloat(50)},
	}
	s := Summarize(records, "2025-01", nil)
	if s.TopCategory != CategoryWater {
		t.Fatalf("expected first-encountered Water on tie, got %q", s.TopCategory)
	}
}
