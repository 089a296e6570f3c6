package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultJobRepository struct {
	db *gorm.DB
}

func NewDefaultJobRepository(db *gorm.DB) *DefaultJobRepository {
	return &DefaultJobRepository{db: db}
}

func (r *DefaultJobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var jobModel models.JobModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&jobModel).Error; err != nil {
		return nil, wrapErr(err, "job")
	}
	return mappers.ToDomainJob(&jobModel), nil
}

func (r *DefaultJobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.JobModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return fmt.Errorf("update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job: %w", domain.ErrNotFound)
	}
	return nil
}
