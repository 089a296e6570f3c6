package models

import (
	"time"
)

type ContractModel struct {
	ID               string `gorm:"primaryKey"`
	JobID            string `gorm:"uniqueIndex;not null"`
	ClientID         string `gorm:"index;not null"`
	FreelancerID     string `gorm:"index;not null"`
	AgreedBid        int64  `gorm:"not null"`
	Currency         string `gorm:"size:3;not null"`
	Terms            string `gorm:"type:jsonb;not null;default:'{}'"`
	ContractText     string `gorm:"type:text"`
	Status           string `gorm:"index;not null"`
	EscrowStatus     string `gorm:"not null"`
	EscrowFunded     int64  `gorm:"not null;default:0"`
	EscrowReleased   int64  `gorm:"not null;default:0"`
	EscrowRefunded   int64  `gorm:"not null;default:0"`
	PreDisputeStatus string
	CancelReason     string
	ExpiresAt        *time.Time `gorm:"index"`
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	Version          int64 `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ContractModel) TableName() string { return "contracts" }

type MilestoneModel struct {
	ID          string `gorm:"primaryKey"`
	ContractID  string `gorm:"index;not null"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Amount      int64  `gorm:"not null"`
	DueDate     *time.Time
	Position    int    `gorm:"not null"`
	Status      string `gorm:"not null"`
	ReleasedAt  *time.Time
	CreatedAt   time.Time
	Contract    ContractModel `gorm:"foreignKey:ContractID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (MilestoneModel) TableName() string { return "milestones" }
