// Package services holds the application services that sit between the
// HTTP layer and the stores: the LedgerService owns the record collection
// and every mutation on it, the ReminderProcessor scans it for due
// payments.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"librospese/internal/backup"
	"librospese/internal/core"
	"librospese/internal/ics"
	"librospese/internal/store"
)

// ErrRecordNotFound is returned by operations addressing a record id that
// is not in the collection.
var ErrRecordNotFound = errors.New("record not found")

// LedgerService is the single writer of the record collection. It loads
// the collection once at startup, keeps it in memory, and serializes every
// mutation behind a mutex. Each mutation persists the whole collection;
// when the save fails the in-memory change is rolled back and the error
// surfaces to the caller.
type LedgerService struct {
	mu              sync.Mutex
	records         []core.Record
	recordStore     store.RecordStore
	attachmentStore store.AttachmentStore
}

// NewLedgerService loads the persisted collection. An unreachable or
// malformed slot degrades to an empty ledger instead of failing startup.
func NewLedgerService(ctx context.Context, records store.RecordStore, attachmentStore store.AttachmentStore) *LedgerService {
	loaded, err := records.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Record store unavailable, starting with empty ledger", "error", err)
		loaded = nil
	}
	slog.InfoContext(ctx, "Ledger loaded", "records", len(loaded))
	return &LedgerService{
		records:         loaded,
		recordStore:     records,
		attachmentStore: attachmentStore,
	}
}

// ListResult is a filtered view of the ledger: the matching records in
// display order, the ids among them that carry an attachment, and the
// total of the visible amounts.
type ListResult struct {
	Records      []core.Record       `json:"records"`
	WithReceipt  map[string]struct{} `json:"-"`
	VisibleTotal core.Amount         `json:"visibleTotal"`
}

// List applies the filter and resolves attachment presence for the
// matching records. The presence lookup runs after the record filter so
// the attachment store is only consulted for visible ids.
func (s *LedgerService) List(ctx context.Context, f core.Filter) (ListResult, error) {
	visible := f.Apply(s.snapshot())

	ids := make([]string, len(visible))
	for i, r := range visible {
		ids[i] = r.ID
	}
	present, err := store.Presence(ctx, s.attachmentStore, ids)
	if err != nil {
		return ListResult{}, fmt.Errorf("resolve attachment presence: %w", err)
	}

	if f.WithAttachment {
		visible = slices.DeleteFunc(visible, func(r core.Record) bool {
			_, ok := present[r.ID]
			return !ok
		})
	}

	return ListResult{
		Records:      visible,
		WithReceipt:  present,
		VisibleTotal: core.VisibleTotal(visible),
	}, nil
}

// Get returns one record by id.
func (s *LedgerService) Get(ctx context.Context, id string) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Record{}, ErrRecordNotFound
	}
	return s.records[i], nil
}

// Add validates and appends a new record, then persists the collection.
// Unlike imports, which carry whatever categories the backup holds, data
// entry is restricted to the fixed enumeration.
func (s *LedgerService) Add(ctx context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if !r.Category.Known() {
		return fmt.Errorf("%w: %q", core.ErrUnknownCategory, r.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clone(s.records), r)
	if err := s.recordStore.Save(ctx, next); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	s.records = next

	slog.InfoContext(ctx, "Record added",
		"record_id", r.ID,
		"category", r.Category,
		"amount", r.Amount.Fixed2())
	return nil
}

// Delete removes a record by id. The record's attachment, if any, is left
// in place and stays retrievable under the same id.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrRecordNotFound
	}

	next := slices.Delete(slices.Clone(s.records), i, i+1)
	if err := s.recordStore.Save(ctx, next); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	s.records = next

	slog.InfoContext(ctx, "Record deleted", "record_id", id)
	return nil
}

// MarkPaid flags a record as paid, defaulting its paid date to today when
// it has none, and returns the updated record.
func (s *LedgerService) MarkPaid(ctx context.Context, id string) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return core.Record{}, ErrRecordNotFound
	}

	next := slices.Clone(s.records)
	next[i].MarkPaid(core.Today())
	if err := s.recordStore.Save(ctx, next); err != nil {
		return core.Record{}, fmt.Errorf("save ledger: %w", err)
	}
	s.records = next

	slog.InfoContext(ctx, "Record marked paid", "record_id", id, "paid_date", next[i].PaidDate)
	return next[i], nil
}

// PutAttachment stores the attachment for an existing record, replacing
// any previous one.
func (s *LedgerService) PutAttachment(ctx context.Context, id, name, mimeType string, data []byte) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	a := core.Attachment{
		ExpenseID: id,
		Name:      name,
		Type:      mimeType,
		Size:      int64(len(data)),
		Data:      data,
	}
	if err := s.attachmentStore.Put(ctx, a); err != nil {
		return fmt.Errorf("store attachment: %w", err)
	}
	slog.InfoContext(ctx, "Attachment stored", "record_id", id, "name", name, "bytes", a.Size)
	return nil
}

// GetAttachment returns the attachment for id, or nil when the record has
// none. The record itself does not have to exist; attachments outlive
// their record.
func (s *LedgerService) GetAttachment(ctx context.Context, id string) (*core.Attachment, error) {
	a, err := s.attachmentStore.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load attachment: %w", err)
	}
	if a == nil || a.Empty() {
		return nil, nil
	}
	return a, nil
}

// DeleteAttachment removes the attachment for id. Deleting a missing
// attachment is a no-op.
func (s *LedgerService) DeleteAttachment(ctx context.Context, id string) error {
	if err := s.attachmentStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	slog.InfoContext(ctx, "Attachment deleted", "record_id", id)
	return nil
}

// Summary computes the aggregates for one month. An empty month selects
// the current one.
func (s *LedgerService) Summary(ctx context.Context, month string) (core.MonthSummary, error) {
	if month == "" {
		month = core.CurrentMonthKey()
	}

	records := s.snapshot()
	var ids []string
	for _, r := range records {
		if r.Date.MonthKey() == month {
			ids = append(ids, r.ID)
		}
	}
	present, err := store.Presence(ctx, s.attachmentStore, ids)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("resolve attachment presence: %w", err)
	}

	return core.Summarize(records, month, present), nil
}

// ImportResult reports the outcome of a merge import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// Import merges a backup document into the collection by id and persists
// the result. A malformed document leaves the ledger untouched.
func (s *LedgerService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, skipped, err := backup.ImportJSON(r, s.records)
	if err != nil {
		return ImportResult{}, err
	}
	if err := s.recordStore.Save(ctx, merged); err != nil {
		return ImportResult{}, fmt.Errorf("save ledger: %w", err)
	}

	imported := len(merged) - len(s.records) // appended; overwrites not counted separately
	s.records = merged

	res := ImportResult{Imported: imported, Skipped: skipped, Total: len(merged)}
	slog.InfoContext(ctx, "Backup imported",
		"imported", res.Imported,
		"skipped", res.Skipped,
		"total", res.Total)
	return res, nil
}

// ExportJSON writes the full collection as a backup document.
func (s *LedgerService) ExportJSON(ctx context.Context, w io.Writer) error {
	return backup.ExportJSON(w, s.snapshot())
}

// ExportCSV writes the filtered view as CSV.
func (s *LedgerService) ExportCSV(ctx context.Context, w io.Writer, f core.Filter) error {
	res, err := s.List(ctx, f)
	if err != nil {
		return err
	}
	return backup.ExportCSV(w, res.Records)
}

// ExportXLSX builds a spreadsheet over the filtered view.
func (s *LedgerService) ExportXLSX(ctx context.Context, f core.Filter) (*excelize.File, error) {
	res, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return backup.ExportXLSX(res.Records)
}

// CalendarMonth renders the iCalendar feed of the due dates in one month.
// An empty month selects the current one.
func (s *LedgerService) CalendarMonth(ctx context.Context, month string) (string, error) {
	if month == "" {
		month = core.CurrentMonthKey()
	}
	return ics.Calendar(ics.DueInMonth(s.snapshot(), month), time.Now())
}

// CalendarUpcoming renders the feed of every due date from today onward.
func (s *LedgerService) CalendarUpcoming(ctx context.Context) (string, error) {
	return ics.Calendar(ics.Upcoming(s.snapshot(), core.Today()), time.Now())
}

// CalendarRecord renders the single-event feed for one record.
func (s *LedgerService) CalendarRecord(ctx context.Context, id string) (string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return ics.Single(rec, time.Now())
}

// snapshot returns a copy of the collection safe to use outside the lock.
func (s *LedgerService) snapshot() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

// indexOf must be called with the mutex held.
func (s *LedgerService) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(r core.Record) bool { return r.ID == id })
}
