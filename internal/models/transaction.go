package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Transaction is an immutable ledger entry against a goal. Amount is the
// unsigned magnitude; direction is encoded by Type. Entries are never
// mutated after creation and are removed only when their goal is deleted.
type Transaction struct {
	Base
	UserID string          `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID string          `gorm:"type:uuid;not null;index" json:"goal_id"`
	Type   TransactionType `gorm:"not null" json:"type"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date   time.Time       `gorm:"not null" json:"date"`

	// Relationships
	Goal Goal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}
