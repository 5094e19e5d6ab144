package models

import "time"

const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"

	CategoryTransferOut = "transfer_out"
	CategoryTransferIn  = "transfer_in"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type Account struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Transaction struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"-"`
	AccountID       string    `db:"account_id" json:"accountId"`
	Type            string    `db:"type" json:"type"`
	Category        string    `db:"category" json:"category"`
	Amount          int64     `db:"amount" json:"amount"`
	Description     *string   `db:"description" json:"description"`
	TransferGroupID *string   `db:"transfer_group_id" json:"transferGroupId,omitempty"`
	ClientRequestID *string   `db:"client_request_id" json:"-"`
	AccountName     string    `db:"account_name" json:"accountName,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// SignedAmount is the effect the transaction has on its account balance.
func (t Transaction) SignedAmount() int64 {
	return SignedAmount(t.Type, t.Category, t.Amount)
}

func SignedAmount(txType, category string, amount int64) int64 {
	switch txType {
	case TypeIncome:
		return amount
	case TypeExpense:
		return -amount
	case TypeTransfer:
		if category == CategoryTransferOut {
			return -amount
		}
		return amount
	default:
		return 0
	}
}

type Budget struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Amount    int64     `db:"amount" json:"amount"`
	Month     int       `db:"month" json:"month"`
	Year      int       `db:"year" json:"year"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type BalanceUpdate struct {
	AccountID string `json:"accountId"`
	Balance   int64  `json:"balance"`
}
