package mappers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
)

func ToDomainAuditEntry(model *models.AuditEntryModel) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:          model.ID,
		ContractID:  model.ContractID,
		Action:      domain.AuditAction(model.Action),
		PerformedBy: model.PerformedBy,
		Details:     model.Details,
		Summary:     model.Summary,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMAuditEntry(entry *domain.AuditEntry) *models.AuditEntryModel {
	return &models.AuditEntryModel{
		ID:          entry.ID,
		ContractID:  entry.ContractID,
		Action:      string(entry.Action),
		PerformedBy: entry.PerformedBy,
		Details:     entry.Details,
		Summary:     entry.Summary,
		CreatedAt:   entry.CreatedAt,
	}
}
