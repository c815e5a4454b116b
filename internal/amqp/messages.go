package amqp

import (
	"encoding/json"
	"time"
)

// RecordSavedMessage announces that a day's figures changed in the ledger.
// It carries only the coordinates of the change; the mirror worker
// recomputes the day from the sheet, so a lost duplicate is harmless.
type RecordSavedMessage struct {
	Kind      string    `json:"kind"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Day       int       `json:"day"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordSavedMessage creates a message for a saved income or expense record
func NewRecordSavedMessage(kind string, year, month, day int) *RecordSavedMessage {
	return &RecordSavedMessage{
		Kind:      kind,
		Year:      year,
		Month:     month,
		Day:       day,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordSavedMessageFromJSON creates a message from JSON bytes
func RecordSavedMessageFromJSON(data []byte) (*RecordSavedMessage, error) {
	var msg RecordSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
