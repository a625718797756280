package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{40, 30 * time.Second}, // shift overflow also capped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), expected: true},
		{name: "connection closed", err: errors.New("connection closed"), expected: true},
		{name: "unexpected EOF", err: errors.New("unexpected EOF"), expected: true},
		{name: "broken pipe", err: errors.New("write: broken pipe"), expected: true},
		{name: "channel not open", err: errors.New("Exception (504) Reason: \"channel/connection is not open\""), expected: true},
		{name: "handler failure", err: errors.New("mirror append: quota exceeded"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestTransactionSyncMessage_RoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage("tx-42", 1)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded, err := TransactionSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if decoded.ID != "tx-42" || decoded.Version != 1 {
		t.Errorf("decoded = %+v, want ID tx-42 version 1", decoded)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("Timestamp must be set")
	}
}

func TestTransactionSyncMessage_Malformed(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed message")
	}
}
