package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the user model in the database.
// TotalCurrentlySaved is a cached sum of CurrentTotal over the user's
// goals; it is only ever written inside ledger transactions.
type User struct {
	Base
	Username            string          `gorm:"uniqueIndex;not null" json:"username"`
	Password            string          `gorm:"not null" json:"-"`
	FirstName           string          `json:"first_name"`
	LastName            string          `json:"last_name"`
	Email               string          `json:"email,omitempty"`
	Currency            string          `gorm:"not null;default:'£'" json:"currency"`
	TotalCurrentlySaved decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_currently_saved"`
	IsActive            bool            `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string          `gorm:"size:64" json:"-"`
	FailedLoginAttempts int             `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time      `json:"-"`
	LastLoginAt         *time.Time      `json:"last_login_at,omitempty"`
	Goals               []Goal          `gorm:"foreignKey:UserID" json:"goals,omitempty"`
	Transactions        []Transaction   `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
