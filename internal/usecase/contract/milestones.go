package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	contractdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/contract"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
)

// AddMilestone добавляет веху к действующему контракту, сумма вех не превышает ставку
func (uc *DefaultContractUsecase) AddMilestone(ctx context.Context, actor domain.Actor, contractID string, input *contractdto.MilestoneInput) (*domain.Milestone, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		verr.Add("title", "This field is required.")
	}
	if input.Amount <= 0 {
		verr.Add("amount", "Ensure this value is greater than 0.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	var created *domain.Milestone
	op := &ContractOperation{
		ContractID:  contractID,
		Operation:   "milestone_added",
		Actor:       actor,
		AllowedFrom: []domain.ContractStatus{domain.ContractAccepted, domain.ContractInProgress},
		Audit:       domain.AuditMilestoneAdded,
		Amount:      input.Amount,
		Authorize: func(c *domain.Contract) error {
			return requireClientOf(actor, c)
		},
	}
	op.Apply = func(ctx context.Context, repos *domain.Repositories, c *domain.Contract) error {
		existing, err := repos.Milestones.ListByContract(ctx, c.ID)
		if err != nil {
			return err
		}
		var total int64
		position := 0
		for _, m := range existing {
			total += m.Amount
			if m.Position > position {
				position = m.Position
			}
		}
		if total+input.Amount > c.AgreedBid {
			return domain.NewValidationError("amount", fmt.Sprintf("Total milestone amount would exceed the agreed bid %d.", c.AgreedBid))
		}

		created = &domain.Milestone{
			ID:          settlement.NewID(),
			ContractID:  c.ID,
			Title:       strings.TrimSpace(input.Title),
			Description: input.Description,
			Amount:      input.Amount,
			DueDate:     input.DueDate,
			Position:    position + 1,
			Status:      domain.MilestonePending,
		}
		if err := repos.Milestones.CreateBatch(ctx, []*domain.Milestone{created}); err != nil {
			return err
		}
		if _, err := settlement.FundMilestones(ctx, repos, c); err != nil {
			return err
		}
		op.Details = map[string]any{"milestone_id": created.ID, "amount": created.Amount}
		return nil
	}

	if _, err := uc.ProcessContractOperation(ctx, op); err != nil {
		return nil, err
	}
	return uc.uow.Repositories().Milestones.GetByID(ctx, created.ID)
}

func (uc *DefaultContractUsecase) ListMilestones(ctx context.Context, actor domain.Actor, contractID string) ([]*domain.Milestone, error) {
	repos := uc.uow.Repositories()
	c, err := repos.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := requirePartyOrStaff(actor, c); err != nil {
		return nil, err
	}
	return repos.Milestones.ListByContract(ctx, contractID)
}
