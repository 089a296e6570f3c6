package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultContractRepository struct {
	db *gorm.DB
}

func NewDefaultContractRepository(db *gorm.DB) *DefaultContractRepository {
	return &DefaultContractRepository{db: db}
}

func (r *DefaultContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	if contract.Version == 0 {
		contract.Version = 1
	}
	contractModel := mappers.ToGORMContract(contract)
	if err := r.db.WithContext(ctx).Create(contractModel).Error; err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	contract.CreatedAt = contractModel.CreatedAt
	contract.UpdatedAt = contractModel.UpdatedAt
	return nil
}

func (r *DefaultContractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	var contractModel models.ContractModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contractModel).Error; err != nil {
		return nil, wrapErr(err, "contract")
	}
	return mappers.ToDomainContract(&contractModel), nil
}

func (r *DefaultContractRepository) GetForUpdate(ctx context.Context, id string) (*domain.Contract, error) {
	var contractModel models.ContractModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&contractModel).Error; err != nil {
		return nil, wrapErr(err, "contract")
	}
	return mappers.ToDomainContract(&contractModel), nil
}

func (r *DefaultContractRepository) GetByJobID(ctx context.Context, jobID string) (*domain.Contract, error) {
	var contractModel models.ContractModel
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&contractModel).Error; err != nil {
		return nil, wrapErr(err, "contract")
	}
	return mappers.ToDomainContract(&contractModel), nil
}

// Update - условное обновление: WHERE status = expected AND version = текущая версия
func (r *DefaultContractRepository) Update(ctx context.Context, contract *domain.Contract, expected domain.ContractStatus) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.ContractModel{}).
		Where("id = ? AND status = ? AND version = ?", contract.ID, string(expected), contract.Version).
		Updates(map[string]interface{}{
			"status":             string(contract.Status),
			"escrow_status":      string(contract.EscrowStatus),
			"escrow_funded":      contract.EscrowFunded,
			"escrow_released":    contract.EscrowReleased,
			"escrow_refunded":    contract.EscrowRefunded,
			"pre_dispute_status": string(contract.PreDisputeStatus),
			"cancel_reason":      contract.CancelReason,
			"expires_at":         contract.ExpiresAt,
			"completed_at":       contract.CompletedAt,
			"cancelled_at":       contract.CancelledAt,
			"version":            contract.Version + 1,
			"updated_at":         now,
		})
	if result.Error != nil {
		return fmt.Errorf("update contract: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contract %s is no longer %s: %w", contract.ID, expected, domain.ErrInvalidState)
	}
	contract.Version++
	contract.UpdatedAt = now
	return nil
}

func (r *DefaultContractRepository) List(ctx context.Context, filter domain.ContractFilter) ([]*domain.Contract, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContractModel{})

	if filter.PartyID != "" {
		query = query.Where("(client_id = ? OR freelancer_id = ?)", filter.PartyID, filter.PartyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	var contractModels []models.ContractModel
	if err := query.
		Order("created_at DESC").
		Offset(offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&contractModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find contract models: %w", err)
	}

	contracts := make([]*domain.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = mappers.ToDomainContract(&contractModels[i])
	}
	return contracts, total, nil
}

func (r *DefaultContractRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*domain.Contract, error) {
	var contractModels []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.ContractPending)).
		Where("expires_at < ?", now).
		Find(&contractModels).Error; err != nil {
		return nil, err
	}
	contracts := make([]*domain.Contract, len(contractModels))
	for i := range contractModels {
		contracts[i] = mappers.ToDomainContract(&contractModels[i])
	}
	return contracts, nil
}
