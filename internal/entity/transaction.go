package entity

import (
	"time"

	"github.com/google/uuid"
)

// TxType discriminates the two transaction ledgers.
type TxType string

const (
	TxExpense TxType = "expense"
	TxIncome  TxType = "income"
)

// Transaction represents a single expense or income row for data transfer
// between layers. TxDate is nil when the user did not supply a date.
type Transaction struct {
	ID        uuid.UUID  `json:"_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Type      TxType     `json:"-"`
	Amount    float64    `json:"amount"`
	Category  string     `json:"category"`
	Note      string     `json:"note"`
	TxDate    *time.Time `json:"date"`
	CreatedAt time.Time  `json:"created_at"`
}
