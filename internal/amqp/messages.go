package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage signals that some ledger data changed. It carries no
// payload beyond the timestamp, consumers re-read the full snapshot from
// storage.
type LedgerChangedMessage struct {
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage() *LedgerChangedMessage {
	return &LedgerChangedMessage{Timestamp: time.Now()}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
