package models

// JobModel - общая таблица jobs, которой владеет сервис заказов
type JobModel struct {
	ID           string `gorm:"primaryKey"`
	ClientID     string `gorm:"index"`
	FreelancerID *string
	Title        string
	Budget       int64
	Currency     string `gorm:"size:3"`
	Status       string
}

func (JobModel) TableName() string { return "jobs" }
