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

type DefaultWalletRepository struct {
	db *gorm.DB
}

func NewDefaultWalletRepository(db *gorm.DB) *DefaultWalletRepository {
	return &DefaultWalletRepository{db: db}
}

func (r *DefaultWalletRepository) ListWallets(ctx context.Context, userID string) ([]*domain.Wallet, error) {
	var walletModels []models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("currency ASC").
		Find(&walletModels).Error; err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	wallets := make([]*domain.Wallet, len(walletModels))
	for i := range walletModels {
		wallets[i] = mappers.ToDomainWallet(&walletModels[i])
	}
	return wallets, nil
}

func (r *DefaultWalletRepository) GetWallet(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	var walletModel models.WalletModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND currency = ?", userID, currency).
		First(&walletModel).Error; err != nil {
		return nil, wrapErr(err, "wallet")
	}
	return mappers.ToDomainWallet(&walletModel), nil
}

func (r *DefaultWalletRepository) Credit(ctx context.Context, userID, currency string, amount int64) error {
	now := time.Now()
	walletModel := models.WalletModel{
		UserID:    userID,
		Currency:  currency,
		Balance:   amount,
		Available: amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "currency"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance":    gorm.Expr("wallets.balance + ?", amount),
				"available":  gorm.Expr("wallets.available + ?", amount),
				"updated_at": now,
			}),
		}).
		Create(&walletModel).Error
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return nil
}

func (r *DefaultWalletRepository) Reserve(ctx context.Context, userID, currency string, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.WalletModel{}).
		Where("user_id = ? AND currency = ? AND available >= ?", userID, currency, amount).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("available - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("reserve funds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *DefaultWalletRepository) ReleaseReservation(ctx context.Context, userID, currency string, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.WalletModel{}).
		Where("user_id = ? AND currency = ?", userID, currency).
		Updates(map[string]interface{}{
			"available":  gorm.Expr("available + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("release reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("wallet: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *DefaultWalletRepository) DebitReserved(ctx context.Context, userID, currency string, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.WalletModel{}).
		Where("user_id = ? AND currency = ? AND balance >= ?", userID, currency, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("debit wallet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *DefaultWalletRepository) CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	txModel := mappers.ToGORMWalletTransaction(tx)
	if err := r.db.WithContext(ctx).Create(txModel).Error; err != nil {
		return fmt.Errorf("create wallet transaction: %w", err)
	}
	tx.CreatedAt = txModel.CreatedAt
	return nil
}

func (r *DefaultWalletRepository) UpdateTransactionStatus(ctx context.Context, reference string, status domain.WalletTxStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.WalletTransactionModel{}).
		Where("reference = ?", reference).
		Update("status", string(status)).Error
}

func (r *DefaultWalletRepository) ListTransactions(ctx context.Context, userID string, page, limit int) ([]*domain.WalletTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	var txModels []models.WalletTransactionModel
	if err := query.
		Order("created_at DESC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&txModels).Error; err != nil {
		return nil, 0, fmt.Errorf("list wallet transactions: %w", err)
	}
	txs := make([]*domain.WalletTransaction, len(txModels))
	for i := range txModels {
		txs[i] = mappers.ToDomainWalletTransaction(&txModels[i])
	}
	return txs, total, nil
}

func (r *DefaultWalletRepository) CreateWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	withdrawalModel := mappers.ToGORMWithdrawal(w)
	if err := r.db.WithContext(ctx).Create(withdrawalModel).Error; err != nil {
		return fmt.Errorf("create withdrawal: %w", err)
	}
	w.CreatedAt = withdrawalModel.CreatedAt
	w.UpdatedAt = withdrawalModel.UpdatedAt
	return nil
}

func (r *DefaultWalletRepository) GetWithdrawalForUpdate(ctx context.Context, reference string) (*domain.Withdrawal, error) {
	var withdrawalModel models.WithdrawalModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference = ?", reference).
		First(&withdrawalModel).Error; err != nil {
		return nil, wrapErr(err, "withdrawal")
	}
	return mappers.ToDomainWithdrawal(&withdrawalModel), nil
}

func (r *DefaultWalletRepository) UpdateWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	w.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(&models.WithdrawalModel{}).
		Where("id = ?", w.ID).
		Updates(map[string]interface{}{
			"transfer_code":  w.TransferCode,
			"status":         string(w.Status),
			"failure_reason": w.FailureReason,
			"updated_at":     w.UpdatedAt,
		}).Error
}
