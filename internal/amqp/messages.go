package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage tells the worker to copy one recorded
// transaction into the user's spreadsheet. It carries only identifiers;
// the worker reads the full row from storage so the queue never holds
// stale amounts.
type TransactionSyncMessage struct {
	TransactionID int64     `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	PublishedAt   time.Time `json:"published_at"`
}

func NewTransactionSyncMessage(transactionID int64, userID string) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		TransactionID: transactionID,
		UserID:        userID,
		PublishedAt:   time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
