package core

import (
	"errors"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary value. It keeps the full decimal
// precision of whatever was entered or imported; rounding to two places
// happens only at display and export time.
type Amount struct {
	decimal.Decimal
}

var ErrInvalidAmount = errors.New("invalid amount")

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{d}
}

// AmountFromFloat builds an Amount from a float, e.g. parsed form input.
func AmountFromFloat(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// ParseAmount parses a decimal string. Both "12.34" and "12,34" are
// accepted; negative values are rejected.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{d}, nil
}

// Add returns a + b at full precision.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.Decimal.Add(b.Decimal)}
}

// DivInt returns a divided by n, or zero when n is 0.
func (a Amount) DivInt(n int) Amount {
	if n == 0 {
		return Amount{}
	}
	return Amount{a.Decimal.Div(decimal.NewFromInt(int64(n)))}
}

// Cmp compares two amounts: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.Decimal.Cmp(b.Decimal)
}

// Fixed2 renders the amount with exactly two decimal places.
func (a Amount) Fixed2() string {
	return a.Decimal.StringFixed(2)
}

// Display renders the amount as a localized EUR string for on-screen use.
func (a Amount) Display() string {
	cents := a.Decimal.Shift(2).Round(0).IntPart()
	return money.New(cents, money.EUR).Display()
}

// MarshalJSON emits the amount as a bare JSON number so backups stay
// readable by the other ends of the import/export format.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
