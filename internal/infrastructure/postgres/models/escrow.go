package models

import "time"

type EscrowTransactionModel struct {
	ID               string `gorm:"primaryKey"`
	ContractID       string `gorm:"index;uniqueIndex:idx_escrow_idempotency;not null"`
	MilestoneID      string
	Kind             string  `gorm:"not null"`
	Amount           int64   `gorm:"not null"`
	Currency         string  `gorm:"size:3;not null"`
	Reference        string  `gorm:"uniqueIndex;not null"`
	IdempotencyKey   *string `gorm:"uniqueIndex:idx_escrow_idempotency"`
	AuthorizationURL string
	Status           string `gorm:"index;not null"`
	FailureReason    string
	CreatedAt        time.Time
	ConfirmedAt      *time.Time
	Contract         ContractModel `gorm:"foreignKey:ContractID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (EscrowTransactionModel) TableName() string { return "escrow_transactions" }
