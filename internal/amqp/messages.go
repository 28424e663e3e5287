package amqp

import (
	"encoding/json"
	"time"

	"librospese/internal/core"
)

// ReminderMessage tells a notification channel that a record's payment
// deadline is inside its reminder window. DaysLeft may be negative for
// overdue records.
type ReminderMessage struct {
	RecordID  string    `json:"recordId"`
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	DueDate   core.Date `json:"dueDate"`
	DaysLeft  int       `json:"daysLeft"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReminderMessage builds the event for one due record.
func NewReminderMessage(r core.Record, daysLeft int) *ReminderMessage {
	return &ReminderMessage{
		RecordID:  r.ID,
		Category:  string(r.Category),
		Amount:    r.Amount.Fixed2(),
		DueDate:   r.DueDate,
		DaysLeft:  daysLeft,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON creates a message from JSON bytes.
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
