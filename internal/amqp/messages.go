package amqp

import (
	"encoding/json"
	"time"
)

// RecordsChangedMessage announces that an owner's records were written.
// Consumers re-read the owner's records instead of trusting a payload.
type RecordsChangedMessage struct {
	OwnerID   int64     `json:"owner_id"`
	Operation string    `json:"operation"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordsChangedMessage(ownerID int64, operation string, count int) *RecordsChangedMessage {
	return &RecordsChangedMessage{
		OwnerID:   ownerID,
		Operation: operation,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

func (m *RecordsChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordsChangedMessageFromJSON(data []byte) (*RecordsChangedMessage, error) {
	var msg RecordsChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
