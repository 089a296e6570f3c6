package response

import (
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type RatingResponse struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	ContractID string    `json:"contract_id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromRating(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:         r.ID,
		JobID:      r.JobID,
		ContractID: r.ContractID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Score:      r.Score,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func FromRatings(ratings []*domain.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, FromRating(r))
	}
	return out
}
