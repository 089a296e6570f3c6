package domain

import "time"

const (
	MinRatingScore = 1
	MaxRatingScore = 5
)

type Rating struct {
	ID         string
	JobID      string
	ContractID string
	ReviewerID string
	RevieweeID string
	Score      int
	Comment    string
	CreatedAt  time.Time
}
