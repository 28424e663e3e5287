package core

// CategoryAmount is an amount aggregated under one category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Amount   `json:"amount"`
}

// MonthSummary is the dashboard aggregate for a single YYYY-MM month.
// ByCategory always covers the full fixed enumeration, zero-filled, so
// chart consumers get a stable series.
type MonthSummary struct {
	Month            string           `json:"month"`
	Total            Amount           `json:"total"`
	AveragePerDay    Amount           `json:"averagePerDay"`
	TopCategory      Category         `json:"topCategory"` // empty when the month has no records
	TopCategoryTotal Amount           `json:"topCategoryTotal"`
	PaidCount        int              `json:"paidCount"`
	UnpaidCount      int              `json:"unpaidCount"`
	WithReceiptCount int              `json:"withReceiptCount"`
	ByCategory       []CategoryAmount `json:"byCategory"`
}

// Summarize aggregates the records whose registration date falls in the
// given month. present holds the ids that currently have a non-empty
// attachment; only in-month ids count toward WithReceiptCount.
//
// Top-category ties resolve to the category encountered first while
// accumulating, matching on-screen behavior.
func Summarize(records []Record, month string, present map[string]struct{}) MonthSummary {
	s := MonthSummary{Month: month}

	perCategory := make(map[Category]Amount)
	var order []Category
	for _, r := range records {
		if r.Date.MonthKey() != month {
			continue
		}
		s.Total = s.Total.Add(r.Amount)
		if _, seen := perCategory[r.Category]; !seen {
			order = append(order, r.Category)
		}
		perCategory[r.Category] = perCategory[r.Category].Add(r.Amount)
		if r.Paid {
			s.PaidCount++
		} else {
			s.UnpaidCount++
		}
		if _, ok := present[r.ID]; ok {
			s.WithReceiptCount++
		}
	}

	if !s.Total.IsZero() {
		s.AveragePerDay = s.Total.DivInt(DaysInMonth(month))
	}

	for _, c := range order {
		if s.TopCategory == "" || perCategory[c].Cmp(s.TopCategoryTotal) > 0 {
			s.TopCategory = c
			s.TopCategoryTotal = perCategory[c]
		}
	}

	for _, c := range Categories() {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Category: c, Amount: perCategory[c]})
	}

	return s
}
