package services

import (
	"time"

	"github.com/shopspring/decimal"

	"goalstash/internal/models"
	"goalstash/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password, firstName, lastName, currency string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// GoalServicer defines the contract for goal lifecycle business logic.
type GoalServicer interface {
	CreateGoal(userID, name string, endTotal decimal.Decimal, endDate time.Time, imageURL string) (*models.Goal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID, name string, endTotal decimal.Decimal, endDate time.Time) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
}

// LedgerServicer defines the contract for recording deposits and
// withdrawals and reading transaction history.
type LedgerServicer interface {
	ApplyTransaction(userID, goalID string, amount decimal.Decimal, txType models.TransactionType, date time.Time) (*models.Goal, *models.Transaction, error)
	GetGoalTransactions(userID, goalID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(userID string, limit int) ([]models.Transaction, error)
}

// StatsServicer defines the contract for the global aggregate record.
type StatsServicer interface {
	EnsureAppStats() error
	GetAppStats() (*models.AppStats, error)
}

// ChatbotServicer defines the contract for the savings assistant.
type ChatbotServicer interface {
	Reply(userID, message string) (string, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
