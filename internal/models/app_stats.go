package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppStatsID is the primary key of the single AppStats row.
const AppStatsID = 1

// AppStats is the global aggregate record (one row, id fixed).
// SavedTotal is a lifetime-deposits counter: withdrawals never reduce it.
type AppStats struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UsersTotal    int64           `gorm:"not null;default:0" json:"users_total"`
	SavedTotal    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"saved_total"`
	AchievedGoals int64           `gorm:"not null;default:0" json:"achieved_goals"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}
