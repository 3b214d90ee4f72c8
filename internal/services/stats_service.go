package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "goalstash/internal/errors"
	"goalstash/internal/models"
)

// statsService handles the global aggregate record.
type statsService struct {
	db *gorm.DB
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB) StatsServicer {
	return &statsService{db: db}
}

// EnsureAppStats creates the singleton stats row if it does not exist.
// Called once at startup.
func (s *statsService) EnsureAppStats() error {
	stats := models.AppStats{ID: models.AppStatsID}
	if err := s.db.FirstOrCreate(&stats, models.AppStats{ID: models.AppStatsID}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAppStats returns the current aggregate counters. A missing row is
// reported as all-zero rather than an error, matching the public home
// page which renders before any user has signed up.
func (s *statsService) GetAppStats() (*models.AppStats, error) {
	var stats models.AppStats
	if err := s.db.First(&stats, models.AppStatsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.AppStats{ID: models.AppStatsID}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stats, nil
}

// lockForUpdate applies a SELECT ... FOR UPDATE clause so that a row read
// with intent to mutate serializes against concurrent ledger units.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// appStatsForUpdate loads the singleton stats row with an exclusive lock,
// creating it if it has never been seeded. Must run inside a transaction.
func appStatsForUpdate(tx *gorm.DB) (*models.AppStats, error) {
	var stats models.AppStats
	err := lockForUpdate(tx).First(&stats, models.AppStatsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.AppStats{ID: models.AppStatsID}
		if err := tx.Create(&stats).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &stats, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stats, nil
}
