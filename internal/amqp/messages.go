package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotRecordedMessage announces that a processed receipt snapshot was
// appended to an account. The summary worker fetches the data it needs from
// the store; the message carries only identifiers.
type SnapshotRecordedMessage struct {
	Username   string    `json:"username"`
	SnapshotID int64     `json:"snapshot_id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewSnapshotRecordedMessage(username string, snapshotID int64) *SnapshotRecordedMessage {
	return &SnapshotRecordedMessage{
		Username:   username,
		SnapshotID: snapshotID,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotRecordedMessageFromJSON creates a message from JSON bytes
func SnapshotRecordedMessageFromJSON(data []byte) (*SnapshotRecordedMessage, error) {
	var msg SnapshotRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
