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
		{63, 30 * time.Second}, // shift overflow still capped
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
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5672: connect: connection refused"),
			expected: true,
		},
		{
			name:     "closed connection",
			err:      errors.New("connection closed by server"),
			expected: true,
		},
		{
			name:     "unexpected EOF",
			err:      errors.New("unexpected EOF"),
			expected: true,
		},
		{
			name:     "broken pipe",
			err:      errors.New("write: broken pipe"),
			expected: true,
		},
		{
			name:     "protocol error",
			err:      errors.New("channel/connection is not open"),
			expected: false,
		},
		{
			name:     "access refused",
			err:      errors.New("ACCESS_REFUSED - Login was refused"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestMutationEvent_JSONRoundTrip(t *testing.T) {
	event := NewMutationEvent("transaction.add", "txn-42")

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := MutationEventFromJSON(body)
	if err != nil {
		t.Fatalf("MutationEventFromJSON: %v", err)
	}

	if back.Op != "transaction.add" || back.EntityID != "txn-42" {
		t.Errorf("round-tripped event = %+v", back)
	}
	if back.Timestamp.IsZero() {
		t.Error("timestamp should survive the round trip")
	}
}

func TestMutationEventFromJSON_Malformed(t *testing.T) {
	if _, err := MutationEventFromJSON([]byte("{")); err == nil {
		t.Error("malformed JSON should fail to decode")
	}
}
