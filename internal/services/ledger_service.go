package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "goalstash/internal/errors"
	"goalstash/internal/models"
	"goalstash/internal/pagination"
)

// ledgerService records deposits and withdrawals against goals and keeps
// the goal balance, the owner's cached total, and the global aggregates
// consistent within a single database transaction.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// ApplyTransaction records a deposit or withdrawal against a goal.
//
// The whole unit runs inside one database transaction with exclusive row
// locks on the goal, the owning user, and the stats row: a concurrent
// call against the same goal observes the committed balance, never a
// stale read. Business-rule rejections happen before any write, so a
// failed call leaves every record untouched.
func (s *ledgerService) ApplyTransaction(
	userID, goalID string,
	amount decimal.Decimal,
	txType models.TransactionType,
	date time.Time,
) (*models.Goal, *models.Transaction, error) {
	// Direction is carried by the type; the stored amount is the magnitude.
	amount = amount.Abs()
	if !amount.IsPositive() {
		return nil, nil, apperrors.ErrInvalidAmount
	}

	switch txType {
	case models.TransactionTypeDeposit, models.TransactionTypeWithdrawal:
	default:
		return nil, nil, apperrors.ErrInvalidTransactionType
	}

	// Default date to now; callers may backdate entries during imports.
	if date.IsZero() {
		date = time.Now()
	}

	var goal models.Goal
	var entry models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Ownership is part of the lookup key: a goal belonging to another
		// user is indistinguishable from a nonexistent one.
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		delta := amount
		if txType == models.TransactionTypeWithdrawal {
			delta = amount.Neg()
		}

		// Compute the new balance locally and use the same value for the
		// achievement check and the persisted total.
		newTotal := goal.CurrentTotal.Add(delta)
		if newTotal.IsNegative() {
			return apperrors.ErrInsufficientFunds
		}

		entry = models.Transaction{
			UserID: userID,
			GoalID: goal.ID,
			Type:   txType,
			Amount: amount,
			Date:   date,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var user models.User
		if err := lockForUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		wasAchieved := goal.Achieved
		isNowAchieved := newTotal.GreaterThanOrEqual(goal.EndTotal)

		goal.CurrentTotal = newTotal
		goal.Achieved = isNowAchieved
		if txType == models.TransactionTypeDeposit {
			goal.DepositsNumber++
		} else {
			goal.WithdrawalsNumber++
		}
		if err := tx.Model(&goal).Updates(map[string]interface{}{
			"current_total":      goal.CurrentTotal,
			"achieved":           goal.Achieved,
			"deposits_number":    goal.DepositsNumber,
			"withdrawals_number": goal.WithdrawalsNumber,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		user.TotalCurrentlySaved = user.TotalCurrentlySaved.Add(delta)
		if err := tx.Model(&user).Update("total_currently_saved", user.TotalCurrentlySaved).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// saved_total counts lifetime deposits; withdrawals never reduce it.
		if txType == models.TransactionTypeDeposit || wasAchieved != isNowAchieved {
			stats, err := appStatsForUpdate(tx)
			if err != nil {
				return err
			}
			if txType == models.TransactionTypeDeposit {
				stats.SavedTotal = stats.SavedTotal.Add(amount)
			}
			if !wasAchieved && isNowAchieved {
				stats.AchievedGoals++
			} else if wasAchieved && !isNowAchieved {
				stats.AchievedGoals--
			}
			if err := tx.Model(stats).Updates(map[string]interface{}{
				"saved_total":    stats.SavedTotal,
				"achieved_goals": stats.AchievedGoals,
			}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &goal, &entry, nil
}

// GetGoalTransactions retrieves a paginated, filtered list of transactions
// for a specific goal, newest first.
func (s *ledgerService) GetGoalTransactions(userID, goalID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	// Verify the goal exists and belongs to the user.
	var count int64
	if err := s.db.Model(&models.Goal{}).Where("id = ? AND user_id = ?", goalID, userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrGoalNotFound
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ? AND goal_id = ?", userID, goalID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUserTransactions retrieves a paginated, filtered list of all of the
// user's transactions whose goal still exists.
func (s *ledgerService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		InnerJoins("Goal").
		Where("transactions.user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("transactions.date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecentTransactions returns the user's most recent entries (goal join
// required, so entries whose goal was deleted are excluded). Used by the
// dashboard history and the chatbot.
func (s *ledgerService) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	var transactions []models.Transaction
	if err := s.db.Model(&models.Transaction{}).
		InnerJoins("Goal").
		Where("transactions.user_id = ?", userID).
		Order("transactions.date DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("transactions.date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transactions.date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("transactions.type = ?", *f.Type)
	}
	return q
}
