package websocket

import (
	"encoding/json"
	"sync"

	"fintrack/internal/log"
	"fintrack/internal/models"
)

// Message is the frame pushed to clients.
type Message struct {
	Type      string `json:"type"`
	AccountID string `json:"accountId"`
	Balance   int64  `json:"balance"`
}

const messageTypeBalance = "balance"

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Nop()
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger.WithComponent(log.ComponentWebsocket),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// BroadcastBalance never blocks; a client whose buffer is full misses the
// update and picks up the next one.
func (h *Hub) BroadcastBalance(userID string, update models.BalanceUpdate) {
	payload, err := json.Marshal(Message{Type: messageTypeBalance, AccountID: update.AccountID, Balance: update.Balance})
	if err != nil {
		h.logger.Error("marshal balance update", log.FieldError, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			h.logger.Debug("dropped balance update for slow client", log.FieldUserID, userID, log.FieldAccountID, update.AccountID)
		}
	}
}
