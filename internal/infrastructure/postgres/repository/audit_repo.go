package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAuditRepository struct {
	db *gorm.DB
}

func NewDefaultAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{db: db}
}

func (r *DefaultAuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	entryModel := mappers.ToGORMAuditEntry(entry)
	if err := r.db.WithContext(ctx).Create(entryModel).Error; err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	entry.CreatedAt = entryModel.CreatedAt
	return nil
}

func (r *DefaultAuditRepository) ListByContract(ctx context.Context, contractID string, limit int) ([]*domain.AuditEntry, error) {
	query := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entryModels []models.AuditEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	entries := make([]*domain.AuditEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = mappers.ToDomainAuditEntry(&entryModels[i])
	}
	return entries, nil
}
