package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	ratingdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/rating"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

type RatingUsecase interface {
	CreateRating(ctx context.Context, actor domain.Actor, input *ratingdto.CreateRatingInput) (*domain.Rating, error)
	ListUserRatings(ctx context.Context, userID string, page, limit int) (*ratingdto.RatingListOutput, error)
}

type DefaultRatingUsecase struct {
	uow    domain.UnitOfWork
	Logger *zap.Logger
}

func NewDefaultRatingUsecase(uow domain.UnitOfWork, logger *zap.Logger) *DefaultRatingUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultRatingUsecase{uow: uow, Logger: logger}
}

// CreateRating - сторона завершенного контракта оценивает другую сторону. Одна оценка на работу
func (uc *DefaultRatingUsecase) CreateRating(ctx context.Context, actor domain.Actor, input *ratingdto.CreateRatingInput) (*domain.Rating, error) {
	var rating *domain.Rating
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		c, err := repos.Contracts.GetByID(ctx, input.ContractID)
		if err != nil {
			return err
		}
		if !c.IsParty(actor.UserID) {
			return fmt.Errorf("only contract parties may rate: %w", domain.ErrPermissionDenied)
		}
		if input.Score < domain.MinRatingScore || input.Score > domain.MaxRatingScore {
			return domain.NewValidationError("score", fmt.Sprintf("Ensure this value is between %d and %d.", domain.MinRatingScore, domain.MaxRatingScore))
		}
		if c.Status != domain.ContractCompleted {
			return fmt.Errorf("contract %s is %s: %w", c.ID, c.Status, domain.ErrInvalidState)
		}

		reviewee := c.FreelancerID
		if actor.UserID == c.FreelancerID {
			reviewee = c.ClientID
		}
		exists, err := repos.Ratings.Exists(ctx, c.JobID, actor.UserID, reviewee)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewValidationError(domain.NonFieldErrors, "You have already rated this job.")
		}

		rating = &domain.Rating{
			ID:         settlement.NewID(),
			JobID:      c.JobID,
			ContractID: c.ID,
			ReviewerID: actor.UserID,
			RevieweeID: reviewee,
			Score:      input.Score,
			Comment:    strings.TrimSpace(input.Comment),
		}
		return repos.Ratings.Create(ctx, rating)
	})
	if err != nil {
		return nil, err
	}
	uc.Logger.Info("rating created",
		zap.String("contract_id", rating.ContractID),
		zap.String("reviewer_id", rating.ReviewerID),
		zap.String("reviewee_id", rating.RevieweeID),
		zap.Int("score", rating.Score),
	)
	return rating, nil
}

func (uc *DefaultRatingUsecase) ListUserRatings(ctx context.Context, userID string, page, limit int) (*ratingdto.RatingListOutput, error) {
	ratings, total, err := uc.uow.Repositories().Ratings.ListByReviewee(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return &ratingdto.RatingListOutput{Ratings: ratings, Total: total}, nil
}
