package ratingdto

import "github.com/LavaJover/freelink-contract-service/internal/domain"

type RatingListOutput struct {
	Ratings []*domain.Rating
	Total   int64
}
