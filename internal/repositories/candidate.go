package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-ranker/internal/models"
)

type CandidateRepository interface {
	FindByBatchID(batchID uuid.UUID) ([]models.CandidateRecord, error)
	UpdateResult(id uuid.UUID, result *CandidateUpdateData) error
	UpdateRanks(ranks map[uuid.UUID]int) error
}

type CandidateUpdateData struct {
	Name   string
	Score  float64
	Result string
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// FindByBatchID implements CandidateRepository.
func (c *candidateRepository) FindByBatchID(batchID uuid.UUID) ([]models.CandidateRecord, error) {
	var records []models.CandidateRecord
	if err := c.db.Where("batch_id = ?", batchID).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	return records, nil
}

// UpdateResult implements CandidateRepository.
func (c *candidateRepository) UpdateResult(id uuid.UUID, data *CandidateUpdateData) error {
	result := c.db.Model(&models.CandidateRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       data.Name,
			"score":      data.Score,
			"result":     data.Result,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update candidate: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate %s not found", id)
	}

	return nil
}

// UpdateRanks implements CandidateRepository. All ranks are written in one transaction.
func (c *candidateRepository) UpdateRanks(ranks map[uuid.UUID]int) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		for id, rank := range ranks {
			if err := tx.Model(&models.CandidateRecord{}).
				Where("id = ?", id).
				Update("rank", rank).Error; err != nil {
				return fmt.Errorf("failed to update rank: %w", err)
			}
		}
		return nil
	})
}
