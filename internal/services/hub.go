package services

import "fintrack/internal/models"

// BalanceHub receives balances after a ledger mutation committed.
type BalanceHub interface {
	BroadcastBalance(userID string, update models.BalanceUpdate)
}

// Hubs fans a broadcast out to every non-nil hub.
type Hubs []BalanceHub

func (h Hubs) BroadcastBalance(userID string, update models.BalanceUpdate) {
	for _, hub := range h {
		if hub != nil {
			hub.BroadcastBalance(userID, update)
		}
	}
}

type noopHub struct{}

func (noopHub) BroadcastBalance(string, models.BalanceUpdate) {}
