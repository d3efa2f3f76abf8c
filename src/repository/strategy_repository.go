package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"algotrader/src/database"
	"algotrader/src/model"
)

// StrategyRepository handles read/write operations for straddle strategy
// configurations.
type StrategyRepository struct {
	db *gorm.DB
}

// NewStrategyRepository creates a new repository instance using the main
// read/write database.
func NewStrategyRepository() *StrategyRepository {
	return &StrategyRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *StrategyRepository) WithDB(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// Create inserts a new strategy configuration. The given strategy is updated
// with the generated ID and timestamps.
func (r *StrategyRepository) Create(ctx context.Context, strat *model.StraddleStrategy) error {
	logger.WithFields(map[string]interface{}{
		"repo":           "StrategyRepository",
		"op":             "Create",
		"user_id":        strat.UserID,
		"trigger_points": strat.TriggerPoints,
	}).Debug("Creating strategy configuration")

	if err := r.db.WithContext(ctx).Create(strat).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "StrategyRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create strategy")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "StrategyRepository",
		"op":          "Create",
		"strategy_id": strat.ID,
	}).Info("Strategy configuration saved")
	return nil
}

// ListByUser returns all strategy configurations saved by a user, newest
// first.
func (r *StrategyRepository) ListByUser(ctx context.Context, userID string) ([]model.StraddleStrategy, error) {
	var strategies []model.StraddleStrategy

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&strategies).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "StrategyRepository",
			"op":      "ListByUser",
			"user_id": userID,
		}).WithError(err).Error("Failed to list strategies")
		return nil, err
	}
	return strategies, nil
}
