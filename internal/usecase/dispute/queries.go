package usecase

import (
	"context"
	"fmt"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	disputedto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/dispute"
)

func (uc *DefaultDisputeUsecase) GetDispute(ctx context.Context, actor domain.Actor, disputeID string) (*domain.Dispute, error) {
	repos := uc.uow.Repositories()
	d, err := repos.Disputes.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	c, err := repos.Contracts.GetByID(ctx, d.ContractID)
	if err != nil {
		return nil, err
	}
	if err := requirePartyOrStaff(actor, c); err != nil {
		return nil, err
	}
	d.Comments, err = repos.Disputes.ListComments(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("list dispute comments: %w", err)
	}
	return d, nil
}

// ListDisputes - стороны видят только свои диспуты, персонал видит все
func (uc *DefaultDisputeUsecase) ListDisputes(ctx context.Context, actor domain.Actor, input *disputedto.ListDisputesInput) (*disputedto.DisputeListOutput, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	filter := domain.DisputeFilter{
		Status: input.Status,
		Page:   input.Page,
		Limit:  input.Limit,
	}
	if !actor.IsStaff() {
		filter.PartyID = actor.UserID
	}
	disputes, total, err := uc.uow.Repositories().Disputes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	return &disputedto.DisputeListOutput{Disputes: disputes, Total: total}, nil
}
