// Package backup implements the import/export formats of the ledger: the
// JSON backup document that round-trips the full record collection, and
// the tabular CSV/XLSX exports of a filtered view. Attachments are never
// part of any of these payloads.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"librospese/internal/core"
)

// ErrMalformedDocument rejects an import wholesale: the payload is not
// well-formed JSON or its top level is not an array. Nothing is merged.
var ErrMalformedDocument = errors.New("malformed backup document")

// Columns of the tabular exports, in order.
var columns = []string{"Date", "Category", "Amount", "DueDate", "ReminderDays", "Paid", "PaidDate", "Note"}

// ExportJSON writes the full collection as an indented JSON array.
func ExportJSON(w io.Writer, records []core.Record) error {
	if records == nil {
		records = []core.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ImportJSON parses a backup document and merges it into the existing
// collection by id: accepted entries overwrite records sharing their id,
// brand-new ids append in file order, and existing records absent from
// the file are preserved. Entries missing a non-empty id, a date, a
// category, or a parseable amount are skipped individually; their count
// is returned. A document whose top level is not an array fails as a
// whole with ErrMalformedDocument.
func ImportJSON(r io.Reader, existing []core.Record) ([]core.Record, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read import: %w", err)
	}

	// Unmarshal alone would accept a top-level null as a nil slice, so the
	// array shape is checked on the raw bytes first.
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, 0, fmt.Errorf("%w: top level is not an array", ErrMalformedDocument)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	merged := make([]core.Record, len(existing))
	copy(merged, existing)
	index := make(map[string]int, len(merged))
	for i, rec := range merged {
		index[rec.ID] = i
	}

	today := core.Today()
	skipped := 0
	for _, entry := range raw {
		rec, ok := decodeEntry(entry, today)
		if !ok {
			skipped++
			continue
		}
		if i, exists := index[rec.ID]; exists {
			merged[i] = rec
		} else {
			index[rec.ID] = len(merged)
			merged = append(merged, rec)
		}
	}
	return merged, skipped, nil
}

// decodeEntry validates one candidate entry and applies the defaults for
// absent optional fields. Unknown categories pass through verbatim.
func decodeEntry(data json.RawMessage, today core.Date) (core.Record, bool) {
	var e struct {
		ID         string        `json:"id"`
		Date       core.Date     `json:"date"`
		Category   core.Category `json:"category"`
		Amount     *core.Amount  `json:"amount"`
		Note       string        `json:"note"`
		DueDate    core.Date     `json:"dueDate"`
		RemindDays int           `json:"remindDays"`
		Paid       bool          `json:"paid"`
		PaidDate   core.Date     `json:"paidDate"`
	}
	if err := json.Unmarshal(data, &e); err != nil {
		slog.Warn("Skipping unreadable backup entry", "error", err)
		return core.Record{}, false
	}
	if e.ID == "" || e.Category == "" || e.Amount == nil {
		return core.Record{}, false
	}

	rec := core.Record{
		ID:         e.ID,
		Date:       e.Date,
		Category:   e.Category,
		Amount:     *e.Amount,
		Note:       e.Note,
		DueDate:    e.DueDate,
		RemindDays: max(e.RemindDays, 0),
		Paid:       e.Paid,
		PaidDate:   e.PaidDate,
	}
	if rec.Paid && rec.PaidDate.IsZero() {
		rec.PaidDate = today
	}
	if err := rec.Validate(); err != nil {
		slog.Warn("Skipping invalid backup entry", "record_id", rec.ID, "error", err)
		return core.Record{}, false
	}
	return rec, true
}

// ExportCSV writes the filtered view as CSV: explicit header row, one row
// per record, amounts at two decimals, booleans as Sì/No, every field
// quote-wrapped with embedded quotes doubled.
func ExportCSV(w io.Writer, records []core.Record) error {
	var b strings.Builder
	writeCSVRow(&b, columns)
	for _, r := range records {
		writeCSVRow(&b, tabularRow(r))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ExportXLSX builds a spreadsheet over the filtered view with the same
// columns as the CSV export.
func ExportXLSX(records []core.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("xlsx cell name: %w", err)
		}
		fields := tabularRow(r)
		row := make([]interface{}, len(fields))
		for j, v := range fields {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func tabularRow(r core.Record) []string {
	return []string{
		string(r.Date),
		string(r.Category),
		r.Amount.Fixed2(),
		string(r.DueDate),
		fmt.Sprintf("%d", r.RemindDays),
		boolLabel(r.Paid),
		string(r.PaidDate),
		r.Note,
	}
}

func boolLabel(b bool) string {
	if b {
		return "Sì"
	}
	return "No"
}
