package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"algotrader/src/database"
	"algotrader/src/model"
)

// PositionRepository handles read/write operations for option position legs.
type PositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new repository instance using the main
// read/write database.
func NewPositionRepository() *PositionRepository {
	return &PositionRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *PositionRepository) WithDB(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Create inserts a new position leg.
func (r *PositionRepository) Create(ctx context.Context, position *model.Position) error {
	logger.WithFields(map[string]interface{}{
		"repo":         "PositionRepository",
		"op":           "Create",
		"execution_id": position.ExecutionID,
		"instrument":   position.Instrument,
	}).Debug("Creating position leg")

	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":         "PositionRepository",
			"op":           "Create",
			"execution_id": position.ExecutionID,
		}).WithError(err).Error("Failed to create position")
		return err
	}
	return nil
}

// CloseByExecution marks every open leg of an execution CLOSED.
func (r *PositionRepository) CloseByExecution(ctx context.Context, executionID string) error {
	logger.WithFields(map[string]interface{}{
		"repo":         "PositionRepository",
		"op":           "CloseByExecution",
		"execution_id": executionID,
	}).Debug("Closing positions for execution")

	err := r.db.WithContext(ctx).
		Model(&model.Position{}).
		Where("execution_id = ? AND status = ?", executionID, model.PositionStatusOpen).
		Update("status", model.PositionStatusClosed).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":         "PositionRepository",
			"op":           "CloseByExecution",
			"execution_id": executionID,
		}).WithError(err).Error("Failed to close positions")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":         "PositionRepository",
		"op":           "CloseByExecution",
		"execution_id": executionID,
	}).Info("Positions closed for execution")
	return nil
}

// ListByExecution returns all legs of one execution, oldest first.
func (r *PositionRepository) ListByExecution(ctx context.Context, executionID string) ([]model.Position, error) {
	var positions []model.Position

	err := r.db.WithContext(ctx).
		Where("execution_id = ?", executionID).
		Order("id ASC").
		Find(&positions).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":         "PositionRepository",
			"op":           "ListByExecution",
			"execution_id": executionID,
		}).WithError(err).Error("Failed to list positions")
		return nil, err
	}
	return positions, nil
}

// ListOpen returns every leg still in OPEN status, oldest first.
func (r *PositionRepository) ListOpen(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position

	err := r.db.WithContext(ctx).
		Where("status = ?", model.PositionStatusOpen).
		Order("id ASC").
		Find(&positions).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "PositionRepository",
			"op":   "ListOpen",
		}).WithError(err).Error("Failed to list open positions")
		return nil, err
	}
	return positions, nil
}
