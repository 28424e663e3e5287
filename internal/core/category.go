package core

import "errors"

// Category identifies an expense category. The seven values below form the
// fixed enumeration used for data entry and the per-category breakdown.
// Values outside the enumeration are preserved verbatim: imported backups
// may carry categories this build does not know about, and rejecting them
// would make those backups unreadable.
type Category string

// ErrUnknownCategory rejects data entry with a category outside the
// enumeration. Imports never return it.
var ErrUnknownCategory = errors.New("unknown category")

const (
	CategoryElectricity Category = "Electricity"
	CategoryGas         Category = "Gas"
	CategoryWater       Category = "Water"
	CategoryInternet    Category = "Internet"
	CategoryRent        Category = "Rent"
	CategoryGroceries   Category = "Groceries"
	CategoryOther       Category = "Other"
)

var categories = []Category{
	CategoryElectricity,
	CategoryGas,
	CategoryWater,
	CategoryInternet,
	CategoryRent,
	CategoryGroceries,
	CategoryOther,
}

// Italian display labels, matching the on-screen category names.
var categoryLabels = map[Category]string{
	CategoryElectricity: "Luce",
	CategoryGas:         "Gas",
	CategoryWater:       "Acqua",
	CategoryInternet:    "Internet",
	CategoryRent:        "Affitto",
	CategoryGroceries:   "Spesa",
	CategoryOther:       "Altro",
}

// Categories returns the fixed enumeration in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Known reports whether c is one of the enumerated categories.
func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the localized display label. Unrecognized categories are
// their own label.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}
