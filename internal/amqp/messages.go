package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message types carried on the sync queue.
const (
	TypeDebtSync   = "debt.sync"
	TypeDebtDelete = "debt.delete"
)

// DebtSyncMessage tells the worker a debt was created or changed. It carries
// only the ID and version; the worker fetches the full record from the
// database before mirroring it.
type DebtSyncMessage struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDebtSyncMessage creates a sync message for the given record version.
func NewDebtSyncMessage(id string, version int64) *DebtSyncMessage {
	return &DebtSyncMessage{
		Type:      TypeDebtSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DebtSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DebtSyncMessageFromJSON creates a sync message from JSON bytes
func DebtSyncMessageFromJSON(data []byte) (*DebtSyncMessage, error) {
	var msg DebtSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("sync message missing id")
	}
	return &msg, nil
}

// DebtDeleteMessage tells the worker a debt was removed and its mirror row
// should go too.
type DebtDeleteMessage struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDebtDeleteMessage creates a delete message for the given debt.
func NewDebtDeleteMessage(id string) *DebtDeleteMessage {
	return &DebtDeleteMessage{
		Type:      TypeDebtDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DebtDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DebtDeleteMessageFromJSON creates a delete message from JSON bytes
func DebtDeleteMessageFromJSON(data []byte) (*DebtDeleteMessage, error) {
	var msg DebtDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("delete message missing id")
	}
	return &msg, nil
}

// messageType peeks at the type discriminator without decoding the payload.
func messageType(data []byte) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", err
	}
	if probe.Type == "" {
		return "", fmt.Errorf("message missing type")
	}
	return probe.Type, nil
}
