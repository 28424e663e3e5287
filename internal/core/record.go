// Package core holds the ledger domain model and the pure query functions
// that compute filtered views and monthly summaries from it.
package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Record is one expense ledger entry. The ID is the primary join key to
// the attachment store and never changes after creation.
type Record struct {
	ID         string   `json:"id"`
	Date       Date     `json:"date"`
	Category   Category `json:"category"`
	Amount     Amount   `json:"amount"`
	Note       string   `json:"note,omitempty"`
	DueDate    Date     `json:"dueDate,omitempty"`
	RemindDays int      `json:"remindDays,omitempty"`
	Paid       bool     `json:"paid,omitempty"`
	PaidDate   Date     `json:"paidDate,omitempty"`
}

var (
	ErrEmptyID            = errors.New("empty record id")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrNegativeRemindDays = errors.New("remind days must not be negative")
	ErrMissingPaidDate    = errors.New("paid record without paid date")
)

// NewRecord creates a record with a fresh opaque id.
func NewRecord(date Date, category Category, amount Amount, note string) Record {
	return Record{
		ID:       uuid.NewString(),
		Date:     date,
		Category: category,
		Amount:   amount,
		Note:     strings.TrimSpace(note),
	}
}

func (r Record) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if r.RemindDays < 0 {
		return ErrNegativeRemindDays
	}
	if !r.DueDate.IsZero() {
		if err := r.DueDate.Validate(); err != nil {
			return err
		}
	}
	if r.Paid && r.PaidDate.IsZero() {
		return ErrMissingPaidDate
	}
	return nil
}

// HasDueDate reports whether the record carries a payment deadline.
func (r Record) HasDueDate() bool { return !r.DueDate.IsZero() }

// MarkPaid flags the record as paid. When no paid date was set before,
// today becomes the paid date; an existing paid date is left alone.
func (r *Record) MarkPaid(today Date) {
	r.Paid = true
	if r.PaidDate.IsZero() {
		r.PaidDate = today
	}
}

// Attachment is a binary receipt file keyed by record id. The key is a
// weak reference: deleting the record leaves the attachment in place, and
// the join tolerates either side being missing. An attachment with no
// payload is the explicit "no attachment" tombstone.
type Attachment struct {
	ExpenseID string
	Name      string
	Type      string
	Size      int64
	Data      []byte
}

// Empty reports whether a holds no payload (absent or tombstone).
func (a Attachment) Empty() bool { return len(a.Data) == 0 }
