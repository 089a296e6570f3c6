package mappers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
)

func ToDomainWallet(model *models.WalletModel) *domain.Wallet {
	return &domain.Wallet{
		UserID:    model.UserID,
		Currency:  model.Currency,
		Balance:   model.Balance,
		Available: model.Available,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToDomainWalletTransaction(model *models.WalletTransactionModel) *domain.WalletTransaction {
	return &domain.WalletTransaction{
		ID:         model.ID,
		UserID:     model.UserID,
		Currency:   model.Currency,
		Type:       domain.WalletTxType(model.Type),
		Amount:     model.Amount,
		Status:     domain.WalletTxStatus(model.Status),
		Reference:  model.Reference,
		ContractID: model.ContractID,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMWalletTransaction(tx *domain.WalletTransaction) *models.WalletTransactionModel {
	return &models.WalletTransactionModel{
		ID:         tx.ID,
		UserID:     tx.UserID,
		Currency:   tx.Currency,
		Type:       string(tx.Type),
		Amount:     tx.Amount,
		Status:     string(tx.Status),
		Reference:  tx.Reference,
		ContractID: tx.ContractID,
		CreatedAt:  tx.CreatedAt,
	}
}

func ToDomainWithdrawal(model *models.WithdrawalModel) *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:            model.ID,
		UserID:        model.UserID,
		Currency:      model.Currency,
		Amount:        model.Amount,
		RecipientCode: model.RecipientCode,
		Reference:     model.Reference,
		TransferCode:  model.TransferCode,
		Status:        domain.WithdrawalStatus(model.Status),
		FailureReason: model.FailureReason,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMWithdrawal(w *domain.Withdrawal) *models.WithdrawalModel {
	return &models.WithdrawalModel{
		ID:            w.ID,
		UserID:        w.UserID,
		Currency:      w.Currency,
		Amount:        w.Amount,
		RecipientCode: w.RecipientCode,
		Reference:     w.Reference,
		TransferCode:  w.TransferCode,
		Status:        string(w.Status),
		FailureReason: w.FailureReason,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}
