package mappers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
)

func ToDomainEscrowTransaction(model *models.EscrowTransactionModel) *domain.EscrowTransaction {
	tx := &domain.EscrowTransaction{
		ID:               model.ID,
		ContractID:       model.ContractID,
		MilestoneID:      model.MilestoneID,
		Kind:             domain.EscrowTxKind(model.Kind),
		Amount:           model.Amount,
		Currency:         model.Currency,
		Reference:        model.Reference,
		AuthorizationURL: model.AuthorizationURL,
		Status:           domain.EscrowTxStatus(model.Status),
		FailureReason:    model.FailureReason,
		CreatedAt:        model.CreatedAt,
		ConfirmedAt:      model.ConfirmedAt,
	}
	if model.IdempotencyKey != nil {
		tx.IdempotencyKey = *model.IdempotencyKey
	}
	return tx
}

func ToGORMEscrowTransaction(tx *domain.EscrowTransaction) *models.EscrowTransactionModel {
	model := &models.EscrowTransactionModel{
		ID:               tx.ID,
		ContractID:       tx.ContractID,
		MilestoneID:      tx.MilestoneID,
		Kind:             string(tx.Kind),
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		Reference:        tx.Reference,
		AuthorizationURL: tx.AuthorizationURL,
		Status:           string(tx.Status),
		FailureReason:    tx.FailureReason,
		CreatedAt:        tx.CreatedAt,
		ConfirmedAt:      tx.ConfirmedAt,
	}
	if tx.IdempotencyKey != "" {
		key := tx.IdempotencyKey
		model.IdempotencyKey = &key
	}
	return model
}
