package models

import "time"

type AuditEntryModel struct {
	ID          string         `gorm:"primaryKey"`
	ContractID  string         `gorm:"index;not null"`
	Action      string         `gorm:"not null"`
	PerformedBy string         `gorm:"not null"`
	Details     map[string]any `gorm:"type:jsonb;serializer:json"`
	Summary     string
	CreatedAt   time.Time `gorm:"index"`
}

func (AuditEntryModel) TableName() string { return "audit_entries" }
