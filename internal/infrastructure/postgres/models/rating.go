package models

import "time"

type RatingModel struct {
	ID         string `gorm:"primaryKey"`
	JobID      string `gorm:"uniqueIndex:idx_rating_unique;not null"`
	ContractID string `gorm:"not null"`
	ReviewerID string `gorm:"uniqueIndex:idx_rating_unique;not null"`
	RevieweeID string `gorm:"uniqueIndex:idx_rating_unique;index;not null"`
	Score      int    `gorm:"not null"`
	Comment    string `gorm:"type:text"`
	CreatedAt  time.Time
}

func (RatingModel) TableName() string { return "ratings" }
