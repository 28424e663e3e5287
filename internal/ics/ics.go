// Package ics turns ledger records with payment deadlines into an
// iCalendar (RFC 5545) feed that external calendar applications can
// subscribe to or import. Each qualifying record maps to one all-day
// VEVENT on its due date, with an optional display alarm firing the
// record's remind-days before.
package ics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"librospese/internal/core"
)

const (
	prodID    = "-//librospese//Scadenze//IT"
	uidDomain = "librospese.local"
	alarmText = "Scadenza pagamento"

	dtstampLayout = "20060102T150405Z"
	dateLayout    = "20060102"
)

var (
	// ErrNoDueDate rejects a single-record export for a record without a
	// payment deadline.
	ErrNoDueDate = errors.New("record has no due date")
	// ErrNothingToExport rejects an export whose selection is empty.
	ErrNothingToExport = errors.New("no records with a due date to export")
)

// Escape protects the RFC 5545 reserved characters in free text.
func Escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
		"\r", "",
	)
	return r.Replace(s)
}

// DueInMonth selects the records whose due date falls in a YYYY-MM month.
func DueInMonth(records []core.Record, month string) []core.Record {
	var out []core.Record
	for _, r := range records {
		if r.HasDueDate() && r.DueDate.MonthKey() == month {
			out = append(out, r)
		}
	}
	return out
}

// Upcoming selects the records whose due date is today or later, soonest
// first.
func Upcoming(records []core.Record, today core.Date) []core.Record {
	var out []core.Record
	for _, r := range records {
		if r.HasDueDate() && r.DueDate >= today {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate < out[j].DueDate
	})
	return out
}

// Calendar renders one complete feed for the given records. Records
// without a due date are skipped; when nothing qualifies the result is
// ErrNothingToExport rather than an empty document.
func Calendar(records []core.Record, now time.Time) (string, error) {
	var events []string
	for _, r := range records {
		if !r.HasDueDate() {
			continue
		}
		events = append(events, event(r, now))
	}
	if len(events) == 0 {
		return "", ErrNothingToExport
	}

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	for _, e := range events {
		b.WriteString(e)
	}
	writeLine(&b, "END:VCALENDAR")
	return b.String(), nil
}

// Single renders a feed containing exactly one event for one record.
func Single(r core.Record, now time.Time) (string, error) {
	if !r.HasDueDate() {
		return "", fmt.Errorf("%w: %s", ErrNoDueDate, r.ID)
	}
	return Calendar([]core.Record{r}, now)
}

func event(r core.Record, now time.Time) string {
	summary := string(r.Category)
	if !r.Amount.IsZero() {
		summary += " €" + r.Amount.Fixed2()
	}

	description := string(r.Date)
	if r.Note != "" {
		description = r.Note + " (" + string(r.Date) + ")"
	}

	var b strings.Builder
	writeLine(&b, "BEGIN:VEVENT")
	writeLine(&b, "UID:"+r.ID+"@"+uidDomain)
	writeLine(&b, "DTSTAMP:"+now.UTC().Format(dtstampLayout))
	writeLine(&b, "DTSTART;VALUE=DATE:"+r.DueDate.Time().Format(dateLayout))
	writeLine(&b, "SUMMARY:"+Escape(summary))
	if description != "" {
		writeLine(&b, "DESCRIPTION:"+Escape(description))
	}
	if r.Category != "" {
		writeLine(&b, "CATEGORIES:"+Escape(string(r.Category)))
	}
	if r.RemindDays > 0 {
		writeLine(&b, "BEGIN:VALARM")
		writeLine(&b, "ACTION:DISPLAY")
		writeLine(&b, fmt.Sprintf("TRIGGER:-P%dD", r.RemindDays))
		writeLine(&b, "DESCRIPTION:"+alarmText)
		writeLine(&b, "END:VALARM")
	}
	writeLine(&b, "END:VEVENT")
	return b.String()
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}
