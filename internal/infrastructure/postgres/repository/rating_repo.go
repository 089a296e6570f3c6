package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRatingRepository struct {
	db *gorm.DB
}

func NewDefaultRatingRepository(db *gorm.DB) *DefaultRatingRepository {
	return &DefaultRatingRepository{db: db}
}

func (r *DefaultRatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	ratingModel := mappers.ToGORMRating(rating)
	if err := r.db.WithContext(ctx).Create(ratingModel).Error; err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	rating.CreatedAt = ratingModel.CreatedAt
	return nil
}

func (r *DefaultRatingRepository) Exists(ctx context.Context, jobID, reviewerID, revieweeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RatingModel{}).
		Where("job_id = ? AND reviewer_id = ? AND reviewee_id = ?", jobID, reviewerID, revieweeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count ratings: %w", err)
	}
	return count > 0, nil
}

func (r *DefaultRatingRepository) ListByReviewee(ctx context.Context, userID string, page, limit int) ([]*domain.Rating, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RatingModel{}).Where("reviewee_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	var ratingModels []models.RatingModel
	if err := query.
		Order("created_at DESC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&ratingModels).Error; err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	ratings := make([]*domain.Rating, len(ratingModels))
	for i := range ratingModels {
		ratings[i] = mappers.ToDomainRating(&ratingModels[i])
	}
	return ratings, total, nil
}
