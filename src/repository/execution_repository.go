package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"algotrader/src/database"
	"algotrader/src/model"
)

// ExecutionRepository handles read/write operations for strategy executions.
type ExecutionRepository struct {
	db *gorm.DB
}

// NewExecutionRepository creates a new repository instance using the main
// read/write database.
func NewExecutionRepository() *ExecutionRepository {
	return &ExecutionRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *ExecutionRepository) WithDB(db *gorm.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// Create inserts a new execution row.
func (r *ExecutionRepository) Create(ctx context.Context, exec *model.StrategyExecution) error {
	logger.WithFields(map[string]interface{}{
		"repo":         "ExecutionRepository",
		"op":           "Create",
		"execution_id": exec.ID,
		"strategy_id":  exec.StrategyID,
	}).Debug("Creating strategy execution")

	if err := r.db.WithContext(ctx).Create(exec).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":         "ExecutionRepository",
			"op":           "Create",
			"execution_id": exec.ID,
		}).WithError(err).Error("Failed to create execution")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":         "ExecutionRepository",
		"op":           "Create",
		"execution_id": exec.ID,
		"status":       exec.Status,
	}).Info("Execution created")
	return nil
}

// Update persists the full execution row.
func (r *ExecutionRepository) Update(ctx context.Context, exec *model.StrategyExecution) error {
	logger.WithFields(map[string]interface{}{
		"repo":         "ExecutionRepository",
		"op":           "Update",
		"execution_id": exec.ID,
		"status":       exec.Status,
	}).Debug("Updating strategy execution")

	if err := r.db.WithContext(ctx).Save(exec).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":         "ExecutionRepository",
			"op":           "Update",
			"execution_id": exec.ID,
		}).WithError(err).Error("Failed to update execution")
		return err
	}
	return nil
}

// FindByID fetches a single execution by its ID.
// Returns (nil, nil) if the execution is not found.
func (r *ExecutionRepository) FindByID(ctx context.Context, id string) (*model.StrategyExecution, error) {
	var exec model.StrategyExecution

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&exec).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":         "ExecutionRepository",
				"op":           "FindByID",
				"execution_id": id,
			}).Info("Execution not found")
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":         "ExecutionRepository",
			"op":           "FindByID",
			"execution_id": id,
		}).WithError(err).Error("Failed to fetch execution")
		return nil, err
	}
	return &exec, nil
}

// ListActive returns all executions still in ACTIVE status.
func (r *ExecutionRepository) ListActive(ctx context.Context) ([]model.StrategyExecution, error) {
	var executions []model.StrategyExecution

	err := r.db.WithContext(ctx).
		Where("status = ?", model.ExecutionStatusActive).
		Order("started_at DESC").
		Find(&executions).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "ExecutionRepository",
			"op":   "ListActive",
		}).WithError(err).Error("Failed to list active executions")
		return nil, err
	}
	return executions, nil
}
