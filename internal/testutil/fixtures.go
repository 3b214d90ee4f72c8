package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"goalstash/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money builds a decimal amount from a string, failing the test on bad input.
func Money(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("invalid money amount %q: %v", value, err)
	}
	return d
}

// CreateTestUser creates an active user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	username := fmt.Sprintf("user%d", nextID())
	return CreateTestUserWithUsername(t, db, username)
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:  username,
		Password:  string(hash),
		FirstName: username,
		Currency:  "£",
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGoal creates a goal with a zero balance and the given target amount.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, endTotal decimal.Decimal) *models.Goal {
	t.Helper()
	return CreateTestGoalWithBalance(t, db, userID, endTotal, decimal.Zero)
}

// CreateTestGoalWithBalance creates a goal with the given target amount and
// saved balance, and keeps the owner's cached savings total consistent.
func CreateTestGoalWithBalance(t *testing.T, db *gorm.DB, userID string, endTotal, currentTotal decimal.Decimal) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		EndTotal:     endTotal,
		CurrentTotal: currentTotal,
		EndDate:      time.Now().AddDate(0, 6, 0),
		Achieved:     currentTotal.GreaterThanOrEqual(endTotal),
		ImageURL:     models.DefaultGoalImage,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}

	if currentTotal.IsPositive() {
		err := db.Model(&models.User{}).
			Where("id = ?", userID).
			Update("total_currently_saved", gorm.Expr("total_currently_saved + ?", currentTotal)).Error
		if err != nil {
			t.Fatalf("failed to update user savings total: %v", err)
		}
	}

	return goal
}

// CreateTestTransaction inserts a transaction row directly, without
// touching goal balances or aggregate stats.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, goalID string, txType models.TransactionType, amount decimal.Decimal) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID: userID,
		GoalID: goalID,
		Type:   txType,
		Amount: amount,
		Date:   time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// GetAppStats reads the aggregate stats row.
func GetAppStats(t *testing.T, db *gorm.DB) *models.AppStats {
	t.Helper()

	var stats models.AppStats
	if err := db.First(&stats, "id = ?", models.AppStatsID).Error; err != nil {
		t.Fatalf("failed to read aggregate stats: %v", err)
	}
	return &stats
}

// GetUser reloads a user by ID.
func GetUser(t *testing.T, db *gorm.DB, userID string) *models.User {
	t.Helper()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to read user: %v", err)
	}
	return &user
}

// GetGoal reloads a goal by ID.
func GetGoal(t *testing.T, db *gorm.DB, goalID string) *models.Goal {
	t.Helper()

	var goal models.Goal
	if err := db.First(&goal, "id = ?", goalID).Error; err != nil {
		t.Fatalf("failed to read goal: %v", err)
	}
	return &goal
}
