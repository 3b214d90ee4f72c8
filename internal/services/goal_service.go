package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "goalstash/internal/errors"
	"goalstash/internal/models"
	"goalstash/internal/pagination"
)

// goalService handles goal lifecycle business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a new savings goal for a user. Balance and
// achievement are derived state: a new goal always starts at zero and
// unachieved regardless of caller input.
func (s *goalService) CreateGoal(userID, name string, endTotal decimal.Decimal, endDate time.Time, imageURL string) (*models.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if !endTotal.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if endDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target date is required")
	}
	if imageURL == "" {
		imageURL = models.DefaultGoalImage
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		EndTotal:     endTotal,
		CurrentTotal: decimal.Zero,
		EndDate:      endDate,
		Achieved:     false,
		ImageURL:     imageURL,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals retrieves a paginated list of the user's goals, newest first.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user, with its
// transactions preloaded newest first.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal edits a goal's name, target amount, and target date, then
// rechecks achievement against the unchanged balance. This is the only
// path where achievement can change without a transaction being recorded.
func (s *goalService) UpdateGoal(userID, goalID, name string, endTotal decimal.Decimal, endDate time.Time) (*models.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if !endTotal.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if endDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target date is required")
	}

	var goal models.Goal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		wasAchieved := goal.Achieved
		isNowAchieved := goal.CurrentTotal.GreaterThanOrEqual(endTotal)

		goal.Name = name
		goal.EndTotal = endTotal
		goal.EndDate = endDate
		goal.Achieved = isNowAchieved
		if err := tx.Model(&goal).Updates(map[string]interface{}{
			"name":      goal.Name,
			"end_total": goal.EndTotal,
			"end_date":  goal.EndDate,
			"achieved":  goal.Achieved,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if wasAchieved != isNowAchieved {
			stats, err := appStatsForUpdate(tx)
			if err != nil {
				return err
			}
			if isNowAchieved {
				stats.AchievedGoals++
			} else {
				stats.AchievedGoals--
			}
			if err := tx.Model(stats).Update("achieved_goals", stats.AchievedGoals).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &goal, nil
}

// DeleteGoal removes a goal, its transactions, and its contribution to
// the owner's cached total and the global achieved-goal count, as one
// atomic unit.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var goal models.Goal
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", goalID, userID).
			First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if goal.CurrentTotal.IsPositive() {
			var user models.User
			if err := lockForUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			user.TotalCurrentlySaved = user.TotalCurrentlySaved.Sub(goal.CurrentTotal)
			if err := tx.Model(&user).Update("total_currently_saved", user.TotalCurrentlySaved).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if goal.Achieved {
			stats, err := appStatsForUpdate(tx)
			if err != nil {
				return err
			}
			stats.AchievedGoals--
			if err := tx.Model(stats).Update("achieved_goals", stats.AchievedGoals).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Delete(&goal).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
}
