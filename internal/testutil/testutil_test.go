package testutil_test

import (
	"testing"

	"goalstash/internal/errors"
	"goalstash/internal/models"
	"goalstash/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "goals", "transactions", "app_stats", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}

	stats := testutil.GetAppStats(t, db)
	if stats.ID != models.AppStatsID {
		t.Errorf("expected aggregate stats row with ID %d, got %d", models.AppStatsID, stats.ID)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}

	goal := testutil.CreateTestGoalWithBalance(t, db, user.ID, testutil.Money(t, "100.00"), testutil.Money(t, "25.00"))
	if !goal.CurrentTotal.Equal(testutil.Money(t, "25.00")) {
		t.Errorf("expected balance 25.00, got %s", goal.CurrentTotal)
	}
	if goal.Achieved {
		t.Error("goal below its target should not be achieved")
	}

	reloaded := testutil.GetUser(t, db, user.ID)
	if !reloaded.TotalCurrentlySaved.Equal(testutil.Money(t, "25.00")) {
		t.Errorf("expected user savings total 25.00, got %s", reloaded.TotalCurrentlySaved)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, goal.ID, models.TransactionTypeDeposit, testutil.Money(t, "10.00"))
	if !tx.Amount.Equal(testutil.Money(t, "10.00")) {
		t.Errorf("expected amount 10.00, got %s", tx.Amount)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrGoalNotFound, "custom message")
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
