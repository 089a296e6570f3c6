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

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	disputeModel := mappers.ToGORMDispute(dispute)
	if err := r.db.WithContext(ctx).Omit("Contract").Create(disputeModel).Error; err != nil {
		return err
	}
	dispute.CreatedAt = disputeModel.CreatedAt
	dispute.UpdatedAt = disputeModel.UpdatedAt
	return nil
}

func (r *DefaultDisputeRepository) GetByID(ctx context.Context, id string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.WithContext(ctx).Model(&models.DisputeModel{}).Where("id = ?", id).First(&disputeModel).Error; err != nil {
		return nil, wrapErr(err, "dispute")
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) FindActiveByContract(ctx context.Context, contractID string) (*domain.Dispute, error) {
	var disputeModel models.DisputeModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Where("status IN ?", []string{string(domain.DisputeOpen), string(domain.DisputeUnderReview)}).
		First(&disputeModel).Error; err != nil {
		return nil, wrapErr(err, "dispute")
	}
	return mappers.ToDomainDispute(&disputeModel), nil
}

func (r *DefaultDisputeRepository) Update(ctx context.Context, dispute *domain.Dispute, expected ...domain.DisputeStatus) error {
	statuses := make([]string, len(expected))
	for i, s := range expected {
		statuses[i] = string(s)
	}
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.DisputeModel{}).
		Where("id = ? AND status IN ?", dispute.ID, statuses).
		Updates(map[string]interface{}{
			"status":           string(dispute.Status),
			"resolution_notes": dispute.ResolutionNotes,
			"resolved_by":      dispute.ResolvedBy,
			"resolved_at":      dispute.ResolvedAt,
			"updated_at":       now,
		})
	if result.Error != nil {
		return fmt.Errorf("update dispute: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("dispute %s: %w", dispute.ID, domain.ErrInvalidState)
	}
	dispute.UpdatedAt = now
	return nil
}

func (r *DefaultDisputeRepository) List(ctx context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DisputeModel{}).
		Joins("JOIN contracts ON contracts.id = disputes.contract_id")

	if filter.PartyID != "" {
		query = query.Where("(contracts.client_id = ? OR contracts.freelancer_id = ?)", filter.PartyID, filter.PartyID)
	}
	if filter.Status != nil {
		query = query.Where("disputes.status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	var disputeModels []models.DisputeModel
	if err := query.
		Order("disputes.created_at DESC").
		Offset(offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&disputeModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find dispute models: %w", err)
	}

	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, total, nil
}

func (r *DefaultDisputeRepository) AddComment(ctx context.Context, comment *domain.DisputeComment) error {
	commentModel := mappers.ToGORMDisputeComment(comment)
	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return fmt.Errorf("add dispute comment: %w", err)
	}
	comment.CreatedAt = commentModel.CreatedAt
	return nil
}

func (r *DefaultDisputeRepository) ListComments(ctx context.Context, disputeID string) ([]*domain.DisputeComment, error) {
	var commentModels []models.DisputeCommentModel
	if err := r.db.WithContext(ctx).
		Where("dispute_id = ?", disputeID).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, fmt.Errorf("list dispute comments: %w", err)
	}
	comments := make([]*domain.DisputeComment, len(commentModels))
	for i := range commentModels {
		comments[i] = mappers.ToDomainDisputeComment(&commentModels[i])
	}
	return comments, nil
}
