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

type DefaultEscrowRepository struct {
	db *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{db: db}
}

func (r *DefaultEscrowRepository) Create(ctx context.Context, tx *domain.EscrowTransaction) error {
	txModel := mappers.ToGORMEscrowTransaction(tx)
	if err := r.db.WithContext(ctx).Omit("Contract").Create(txModel).Error; err != nil {
		return fmt.Errorf("create escrow transaction: %w", err)
	}
	tx.CreatedAt = txModel.CreatedAt
	return nil
}

func (r *DefaultEscrowRepository) GetByReference(ctx context.Context, reference string) (*domain.EscrowTransaction, error) {
	var txModel models.EscrowTransactionModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&txModel).Error; err != nil {
		return nil, wrapErr(err, "escrow transaction")
	}
	return mappers.ToDomainEscrowTransaction(&txModel), nil
}

func (r *DefaultEscrowRepository) GetByReferenceForUpdate(ctx context.Context, reference string) (*domain.EscrowTransaction, error) {
	var txModel models.EscrowTransactionModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference = ?", reference).
		First(&txModel).Error; err != nil {
		return nil, wrapErr(err, "escrow transaction")
	}
	return mappers.ToDomainEscrowTransaction(&txModel), nil
}

func (r *DefaultEscrowRepository) GetByIdempotencyKey(ctx context.Context, contractID, key string) (*domain.EscrowTransaction, error) {
	var txModel models.EscrowTransactionModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND idempotency_key = ?", contractID, key).
		First(&txModel).Error; err != nil {
		return nil, wrapErr(err, "escrow transaction")
	}
	return mappers.ToDomainEscrowTransaction(&txModel), nil
}

func (r *DefaultEscrowRepository) UpdateStatus(ctx context.Context, id string, from, to domain.EscrowTxStatus, reason string, at *time.Time) error {
	updates := map[string]interface{}{
		"status":         string(to),
		"failure_reason": reason,
	}
	if to == domain.EscrowTxConfirmed {
		updates["confirmed_at"] = at
	}
	result := r.db.WithContext(ctx).
		Model(&models.EscrowTransactionModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update escrow transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("escrow transaction %s is not %s: %w", id, from, domain.ErrInvalidState)
	}
	return nil
}

func (r *DefaultEscrowRepository) ListByContract(ctx context.Context, contractID string) ([]*domain.EscrowTransaction, error) {
	var txModels []models.EscrowTransactionModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, fmt.Errorf("list escrow transactions: %w", err)
	}
	txs := make([]*domain.EscrowTransaction, len(txModels))
	for i := range txModels {
		txs[i] = mappers.ToDomainEscrowTransaction(&txModels[i])
	}
	return txs, nil
}

func (r *DefaultEscrowRepository) FindStaleDeposits(ctx context.Context, before time.Time, limit int) ([]*domain.EscrowTransaction, error) {
	var txModels []models.EscrowTransactionModel
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND status = ?", string(domain.EscrowDeposit), string(domain.EscrowTxInitiated)).
		Where("created_at < ?", before).
		Order("created_at ASC").
		Limit(limit).
		Find(&txModels).Error; err != nil {
		return nil, fmt.Errorf("find stale deposits: %w", err)
	}
	txs := make([]*domain.EscrowTransaction, len(txModels))
	for i := range txModels {
		txs[i] = mappers.ToDomainEscrowTransaction(&txModels[i])
	}
	return txs, nil
}
