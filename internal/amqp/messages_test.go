package amqp

import (
	"testing"
	"time"
)

func TestQuoteRecordedMessageRoundTrip(t *testing.T) {
	msg := NewQuoteRecordedMessage(42)
	if msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := QuoteRecordedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != 42 {
		t.Fatalf("id = %d, want 42", decoded.ID)
	}
	if !decoded.Timestamp.Truncate(time.Second).Equal(msg.Timestamp.Truncate(time.Second)) {
		t.Fatalf("timestamp mismatch: %v vs %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestQuoteRecordedMessageFromInvalidJSON(t *testing.T) {
	if _, err := QuoteRecordedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
