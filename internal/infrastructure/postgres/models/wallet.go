package models

import "time"

type WalletModel struct {
	UserID    string `gorm:"primaryKey"`
	Currency  string `gorm:"primaryKey;size:3"`
	Balance   int64  `gorm:"not null;default:0"`
	Available int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletModel) TableName() string { return "wallets" }

type WalletTransactionModel struct {
	ID         string `gorm:"primaryKey"`
	UserID     string `gorm:"index;not null"`
	Currency   string `gorm:"size:3;not null"`
	Type       string `gorm:"not null"`
	Amount     int64  `gorm:"not null"`
	Status     string `gorm:"not null"`
	Reference  string `gorm:"uniqueIndex;not null"`
	ContractID string
	CreatedAt  time.Time
}

func (WalletTransactionModel) TableName() string { return "wallet_transactions" }

type WithdrawalModel struct {
	ID            string `gorm:"primaryKey"`
	UserID        string `gorm:"index;not null"`
	Currency      string `gorm:"size:3;not null"`
	Amount        int64  `gorm:"not null"`
	RecipientCode string `gorm:"not null"`
	Reference     string `gorm:"uniqueIndex;not null"`
	TransferCode  string
	Status        string `gorm:"index;not null"`
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (WithdrawalModel) TableName() string { return "withdrawals" }
