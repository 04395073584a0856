package amqp

import (
	"testing"
	"time"
)

func TestTransactionSyncMessageJSON(t *testing.T) {
	msg := NewTransactionSyncMessage(17, "42")
	if msg.PublishedAt.IsZero() {
		t.Fatal("PublishedAt not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if parsed.TransactionID != 17 || parsed.UserID != "42" {
		t.Fatalf("parsed = %+v", parsed)
	}
	if !parsed.PublishedAt.Truncate(time.Second).Equal(msg.PublishedAt.Truncate(time.Second)) {
		t.Fatalf("timestamp drifted: %v vs %v", parsed.PublishedAt, msg.PublishedAt)
	}
}

func TestTransactionSyncMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
