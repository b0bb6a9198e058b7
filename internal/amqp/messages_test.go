package amqp

import "testing"

func TestSnapshotRecordedMessageRoundTrip(t *testing.T) {
	msg := NewSnapshotRecordedMessage("alice", 42)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := SnapshotRecordedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Username != "alice" || decoded.SnapshotID != 42 {
		t.Fatalf("unexpected message: %+v", decoded)
	}
	if decoded.Timestamp.IsZero() {
		t.Fatal("timestamp not preserved")
	}
}

func TestSnapshotRecordedMessageFromInvalidJSON(t *testing.T) {
	if _, err := SnapshotRecordedMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
