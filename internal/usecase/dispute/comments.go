package usecase

import (
	"context"
	"strings"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

func (uc *DefaultDisputeUsecase) AddComment(ctx context.Context, actor domain.Actor, disputeID, content string) (*domain.DisputeComment, error) {
	content = strings.TrimSpace(content)

	var comment *domain.DisputeComment
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		d, err := repos.Disputes.GetByID(ctx, disputeID)
		if err != nil {
			return err
		}
		c, err := repos.Contracts.GetByID(ctx, d.ContractID)
		if err != nil {
			return err
		}
		if err := requirePartyOrStaff(actor, c); err != nil {
			return err
		}
		if content == "" {
			return domain.NewValidationError("content", "This field is required.")
		}
		comment = &domain.DisputeComment{
			ID:        settlement.NewID(),
			DisputeID: d.ID,
			AuthorID:  actor.UserID,
			Content:   content,
		}
		return repos.Disputes.AddComment(ctx, comment)
	})
	if err != nil {
		uc.recordErrorMetrics("comment", err)
		return nil, err
	}
	uc.Logger.Debug("dispute comment added",
		zap.String("dispute_id", disputeID),
		zap.String("author_id", actor.UserID),
	)
	return comment, nil
}
