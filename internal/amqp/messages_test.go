package amqp

import (
	"testing"
	"time"

	"librospese/internal/core"
)

func TestNewReminderMessage(t *testing.T) {
	r := core.Record{
		ID:         "rec-1",
		Date:       "2025-03-01",
		Category:   core.CategoryRent,
		Amount:     core.AmountFromFloat(850),
		DueDate:    "2025-03-15",
		RemindDays: 3,
	}

	msg := NewReminderMessage(r, 3)

	if msg.RecordID != "rec-1" || msg.Category != "Rent" || msg.Amount != "850.00" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.DueDate != "2025-03-15" || msg.DaysLeft != 3 {
		t.Fatalf("unexpected due fields: %+v", msg)
	}
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Second {
		t.Fatal("timestamp should be recent")
	}
}

func TestReminderMessageJSONRoundTrip(t *testing.T) {
	msg := &ReminderMessage{
		RecordID:  "rec-2",
		Category:  "Gas",
		Amount:    "40.00",
		DueDate:   "2025-04-01",
		DaysLeft:  -2,
		Timestamp: time.Date(2025, 3, 30, 12, 0, 0, 0, time.UTC),
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	back, err := ReminderMessageFromJSON(data)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if back.RecordID != msg.RecordID || back.DaysLeft != msg.DaysLeft || !back.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("round trip mismatch: %+v vs %+v", back, msg)
	}
}

func TestReminderMessageFromInvalidJSON(t *testing.T) {
	if _, err := ReminderMessageFromJSON([]byte(`{"daysLeft":"many"}`)); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
