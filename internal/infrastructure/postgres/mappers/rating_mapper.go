package mappers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
)

func ToDomainRating(model *models.RatingModel) *domain.Rating {
	return &domain.Rating{
		ID:         model.ID,
		JobID:      model.JobID,
		ContractID: model.ContractID,
		ReviewerID: model.ReviewerID,
		RevieweeID: model.RevieweeID,
		Score:      model.Score,
		Comment:    model.Comment,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMRating(rating *domain.Rating) *models.RatingModel {
	return &models.RatingModel{
		ID:         rating.ID,
		JobID:      rating.JobID,
		ContractID: rating.ContractID,
		ReviewerID: rating.ReviewerID,
		RevieweeID: rating.RevieweeID,
		Score:      rating.Score,
		Comment:    rating.Comment,
		CreatedAt:  rating.CreatedAt,
	}
}
