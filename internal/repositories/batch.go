package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-ranker/internal/models"
)

var ErrBatchNotFound = errors.New("batch not found")

type BatchRepository interface {
	Create(batch *models.Batch) error
	FindByID(id uuid.UUID) (*models.Batch, error)
	UpdateStatus(id uuid.UUID, status models.BatchStatus) error
	Claim(id uuid.UUID) (bool, error)
	RequeueProcessing() (int64, error)
	MarkCompleted(id uuid.UUID) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingBatches(limit int) ([]models.Batch, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

// Create stores the batch together with its candidate records.
func (r *batchRepository) Create(batch *models.Batch) error {
	if err := r.db.Create(batch).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

// FindByID loads the batch with its candidates in upload order.
func (r *batchRepository) FindByID(id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	err := r.db.
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return &batch, nil
}

func (r *batchRepository) UpdateStatus(id uuid.UUID, status models.BatchStatus) error {
	return r.update(id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

// Claim moves a queued batch to processing. It reports false when the batch
// is not queued anymore, e.g. another worker took it first.
func (r *batchRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.Batch{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim batch: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// RequeueProcessing puts batches left in processing by a previous run back in the queue.
func (r *batchRepository) RequeueProcessing() (int64, error) {
	result := r.db.Model(&models.Batch{}).
		Where("status = ?", models.StatusProcessing).
		Updates(map[string]interface{}{
			"status":     models.StatusQueued,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to requeue batches: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *batchRepository) MarkCompleted(id uuid.UUID) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusCompleted,
		"error_message": nil,
		"updated_at":    time.Now(),
	})
}

func (r *batchRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (r *batchRepository) FindPendingBatches(limit int) ([]models.Batch, error) {
	var batches []models.Batch
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&batches).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending batches: %w", err)
	}

	return batches, nil
}

func (r *batchRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update batch: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrBatchNotFound
	}

	return nil
}
