package events

import (
	"encoding/json"
	"time"
)

// Message types let dashboard consumers dispatch without sniffing fields.
const (
	TypeTransactionCreated = "transaction.created"
	TypePayableStatus      = "payable.status"
)

// LedgerMessage announces one ledger mutation. It carries identifiers only;
// consumers re-read the store, the same way every report does.
type LedgerMessage struct {
	Type      string    `json:"type"`
	UserID    int64     `json:"user_id"`
	EntityID  int64     `json:"entity_id"`
	Month     string    `json:"month,omitempty"` // ISO month anchor of the affected report window
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionCreatedMessage(userID, transactionID int64, month string) *LedgerMessage {
	return &LedgerMessage{
		Type:      TypeTransactionCreated,
		UserID:    userID,
		EntityID:  transactionID,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func NewPayableStatusMessage(userID, payableID int64) *LedgerMessage {
	return &LedgerMessage{
		Type:      TypePayableStatus,
		UserID:    userID,
		EntityID:  payableID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerMessageFromJSON creates a message from JSON bytes.
func LedgerMessageFromJSON(data []byte) (*LedgerMessage, error) {
	var msg LedgerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
