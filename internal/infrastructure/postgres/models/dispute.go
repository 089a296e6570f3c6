package models

import (
	"time"
)

type DisputeModel struct {
	ID              string `gorm:"primaryKey"`
	ContractID      string `gorm:"index;not null"`
	RaisedBy        string `gorm:"not null"`
	Reason          string `gorm:"not null"`
	Description     string `gorm:"type:text"`
	Status          string `gorm:"index;not null"`
	ResolutionNotes string `gorm:"type:text"`
	ResolvedBy      string
	ResolvedAt      *time.Time
	Contract        ContractModel `gorm:"foreignKey:ContractID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DisputeModel) TableName() string { return "disputes" }

type DisputeCommentModel struct {
	ID        string `gorm:"primaryKey"`
	DisputeID string `gorm:"index;not null"`
	AuthorID  string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (DisputeCommentModel) TableName() string { return "dispute_comments" }
