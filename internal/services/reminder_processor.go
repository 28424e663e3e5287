package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"librospese/internal/amqp"
	"librospese/internal/core"
	"librospese/internal/store"
)

// ReminderPublisher publishes one due-date reminder event.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *amqp.ReminderMessage) error
}

// ReminderDue reports whether a record's payment deadline is inside its
// reminder window as of today, and how many days remain. Overdue unpaid
// records stay due with a negative day count until they are paid.
func ReminderDue(r core.Record, today core.Date) (int, bool) {
	if r.Paid || !r.HasDueDate() {
		return 0, false
	}
	daysLeft := today.DaysUntil(r.DueDate)
	if daysLeft > r.RemindDays {
		return 0, false
	}
	return daysLeft, true
}

// ReminderProcessor periodically scans the persisted ledger for unpaid
// records inside their reminder window and publishes one event per record
// per day. It reads the slot directly so it can run in a separate process
// from the HTTP server.
type ReminderProcessor struct {
	records   store.RecordStore
	publisher ReminderPublisher

	mu        sync.Mutex
	published map[string]core.Date
}

// NewReminderProcessor creates a processor. A nil publisher disables
// publishing; due records are then only logged.
func NewReminderProcessor(records store.RecordStore, publisher ReminderPublisher) *ReminderProcessor {
	return &ReminderProcessor{
		records:   records,
		publisher: publisher,
		published: make(map[string]core.Date),
	}
}

// ProcessOnce runs one scan as of today and returns how many reminders
// were published. A record already published today is skipped; publish
// failures are logged and retried on the next scan.
func (p *ReminderProcessor) ProcessOnce(ctx context.Context, today core.Date) (int, error) {
	records, err := p.records.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ledger: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	count := 0
	for _, r := range records {
		daysLeft, due := ReminderDue(r, today)
		if !due {
			continue
		}
		if p.published[r.ID] == today {
			continue
		}

		if p.publisher == nil {
			slog.InfoContext(ctx, "Payment due, no publisher configured",
				"record_id", r.ID,
				"due_date", r.DueDate,
				"days_left", daysLeft)
			p.published[r.ID] = today
			continue
		}

		if err := p.publisher.PublishReminder(ctx, amqp.NewReminderMessage(r, daysLeft)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder",
				"record_id", r.ID, "error", err)
			continue
		}
		p.published[r.ID] = today
		count++
	}

	return count, nil
}

// Run scans immediately and then on every tick until the context ends.
func (p *ReminderProcessor) Run(ctx context.Context, interval time.Duration) error {
	slog.InfoContext(ctx, "Reminder processor started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := p.ProcessOnce(ctx, core.Today()); err != nil {
			slog.ErrorContext(ctx, "Reminder scan failed", "error", err)
		} else if n > 0 {
			slog.InfoContext(ctx, "Reminder scan complete", "published", n)
		}

		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder processor stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
