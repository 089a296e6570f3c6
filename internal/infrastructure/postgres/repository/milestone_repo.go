package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultMilestoneRepository struct {
	db *gorm.DB
}

func NewDefaultMilestoneRepository(db *gorm.DB) *DefaultMilestoneRepository {
	return &DefaultMilestoneRepository{db: db}
}

func (r *DefaultMilestoneRepository) CreateBatch(ctx context.Context, milestones []*domain.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	milestoneModels := make([]*models.MilestoneModel, len(milestones))
	for i, m := range milestones {
		milestoneModels[i] = mappers.ToGORMMilestone(m)
	}
	if err := r.db.WithContext(ctx).Omit("Contract").Create(&milestoneModels).Error; err != nil {
		return fmt.Errorf("create milestones: %w", err)
	}
	for i, m := range milestoneModels {
		milestones[i].CreatedAt = m.CreatedAt
	}
	return nil
}

func (r *DefaultMilestoneRepository) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	var milestoneModel models.MilestoneModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&milestoneModel).Error; err != nil {
		return nil, wrapErr(err, "milestone")
	}
	return mappers.ToDomainMilestone(&milestoneModel), nil
}

func (r *DefaultMilestoneRepository) ListByContract(ctx context.Context, contractID string) ([]*domain.Milestone, error) {
	var milestoneModels []models.MilestoneModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("position ASC").
		Find(&milestoneModels).Error; err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	milestones := make([]*domain.Milestone, len(milestoneModels))
	for i := range milestoneModels {
		milestones[i] = mappers.ToDomainMilestone(&milestoneModels[i])
	}
	return milestones, nil
}

func (r *DefaultMilestoneRepository) UpdateStatus(ctx context.Context, id string, from, to domain.MilestoneStatus, at *time.Time) error {
	updates := map[string]interface{}{"status": string(to)}
	if to == domain.MilestoneReleased {
		updates["released_at"] = at
	}
	result := r.db.WithContext(ctx).
		Model(&models.MilestoneModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update milestone: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("milestone %s is not %s: %w", id, from, domain.ErrInvalidState)
	}
	return nil
}
