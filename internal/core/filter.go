package core

import (
	"sort"
	"strings"
)

// Filter selects records from the in-memory collection. All criteria are
// optional and conjunctive. When both paid toggles are set, PaidOnly wins.
//
// WithAttachment cannot be evaluated from record fields alone; the caller
// applies it as a post-pass against the attachment store after Apply.
type Filter struct {
	Month          string // YYYY-MM; empty matches every month
	Category       Category
	PaidOnly       bool
	UnpaidOnly     bool
	Search         string // case-insensitive substring of the note
	WithAttachment bool
}

// Match evaluates the synchronous criteria against one record.
func (f Filter) Match(r Record) bool {
	if f.Month != "" && r.Date.MonthKey() != f.Month {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.PaidOnly {
		if !r.Paid {
			return false
		}
	} else if f.UnpaidOnly && r.Paid {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Note), q) {
			return false
		}
	}
	return true
}

// Apply returns the matching records sorted by registration date,
// newest first. The input slice is not modified.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// VisibleTotal sums the amounts of a filtered result set.
func VisibleTotal(records []Record) Amount {
	var total Amount
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}
