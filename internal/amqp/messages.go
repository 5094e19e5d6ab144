package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/models"
)

const RoutingKeyBalanceUpdated = "balance.updated"

// BalanceUpdatedMessage announces a committed account balance.
type BalanceUpdatedMessage struct {
	UserID     string    `json:"userId"`
	AccountID  string    `json:"accountId"`
	Balance    int64     `json:"balance"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewBalanceUpdatedMessage(userID string, update models.BalanceUpdate, now time.Time) *BalanceUpdatedMessage {
	return &BalanceUpdatedMessage{
		UserID:     userID,
		AccountID:  update.AccountID,
		Balance:    update.Balance,
		OccurredAt: now.UTC(),
	}
}

func (m *BalanceUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BalanceUpdatedMessageFromJSON(data []byte) (*BalanceUpdatedMessage, error) {
	var msg BalanceUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
