package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGoalImage is used when no image URL is supplied at creation.
const DefaultGoalImage = "/public/img/goal-icons/default.png"

// Goal represents a savings target owned by a single user.
// Achieved is derived state: it must equal CurrentTotal >= EndTotal at
// the end of every operation that touches the goal.
type Goal struct {
	Base
	UserID            string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name              string          `gorm:"not null" json:"name"`
	EndTotal          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"end_total"`
	CurrentTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"current_total"`
	EndDate           time.Time       `gorm:"not null" json:"end_date"`
	Achieved          bool            `gorm:"not null;default:false" json:"achieved"`
	ImageURL          string          `json:"image_url,omitempty"`
	DepositsNumber    int             `gorm:"not null;default:0" json:"deposits_number"`
	WithdrawalsNumber int             `gorm:"not null;default:0" json:"withdrawals_number"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:GoalID" json:"transactions,omitempty"`
}
