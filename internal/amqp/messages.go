package amqp

import (
	"encoding/json"
	"time"
)

// QuoteRecordedMessage signals that a quote row was written to local
// storage and is ready for ledger export. It carries only the row ID;
// the worker fetches the full record from the database.
type QuoteRecordedMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewQuoteRecordedMessage creates a message for the given quote row.
func NewQuoteRecordedMessage(id int64) *QuoteRecordedMessage {
	return &QuoteRecordedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *QuoteRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// QuoteRecordedMessageFromJSON creates a message from JSON bytes.
func QuoteRecordedMessageFromJSON(data []byte) (*QuoteRecordedMessage, error) {
	var msg QuoteRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
