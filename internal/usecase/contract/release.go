package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

// ReleaseMilestone - клиент принимает работу по вехе, деньги уходят на кошелек фрилансера.
// После выплаты последней вехи контракт завершается, остаток эскроу возвращается клиенту
func (uc *DefaultContractUsecase) ReleaseMilestone(ctx context.Context, actor domain.Actor, contractID, milestoneID string) (*domain.Contract, error) {
	var refunded int64
	op := &ContractOperation{
		ContractID:  contractID,
		Operation:   "milestone_released",
		Actor:       actor,
		AllowedFrom: []domain.ContractStatus{domain.ContractSubmitted},
		Audit:       domain.AuditPaymentReleased,
		Details:     map[string]any{"milestone_id": milestoneID},
		Authorize: func(c *domain.Contract) error {
			return requireClientOf(actor, c)
		},
	}
	op.Apply = func(ctx context.Context, repos *domain.Repositories, c *domain.Contract) error {
		milestone, err := repos.Milestones.GetByID(ctx, milestoneID)
		if err != nil {
			return err
		}
		if milestone.ContractID != c.ID {
			return fmt.Errorf("milestone %s: %w", milestoneID, domain.ErrNotFound)
		}
		if err := settlement.ReleaseMilestone(ctx, repos, c, milestone); err != nil {
			return err
		}
		op.Amount = milestone.Amount
		op.Details["amount"] = milestone.Amount

		milestones, err := repos.Milestones.ListByContract(ctx, c.ID)
		if err != nil {
			return err
		}
		if !settlement.AllReleased(milestones) {
			return nil
		}
		return uc.completeContract(ctx, repos, c, actor.UserID, &refunded)
	}

	contract, err := uc.ProcessContractOperation(ctx, op)
	if err != nil {
		return nil, err
	}

	uc.recordReleaseMetrics(contract, op.Amount, refunded)
	if contract.Status == domain.ContractCompleted {
		uc.Logger.Info("contract completed",
			zap.String("contract_id", contract.ID),
			zap.Int64("released", contract.EscrowReleased),
			zap.Int64("refunded_residual", refunded),
		)
		uc.publishContractEvent(contract, "contract.completed", actor.UserID, contract.EscrowReleased)
	}
	return contract, nil
}

// completeContract завершает контракт внутри транзакции выплаты последней вехи
func (uc *DefaultContractUsecase) completeContract(ctx context.Context, repos *domain.Repositories, c *domain.Contract, actorID string, refunded *int64) error {
	amount, err := settlement.RefundEscrow(ctx, repos, c)
	if err != nil {
		return err
	}
	*refunded = amount
	if amount > 0 {
		if err := settlement.RecordAudit(ctx, repos, c.ID, domain.AuditEscrowRefunded, actorID, map[string]any{
			"amount": amount,
			"reason": "residual after completion",
		}); err != nil {
			return err
		}
	}

	now := time.Now()
	c.Status = domain.ContractCompleted
	c.CompletedAt = &now
	if err := repos.Jobs.UpdateStatus(ctx, c.JobID, domain.JobCompleted); err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	return settlement.RecordAudit(ctx, repos, c.ID, domain.AuditContractCompleted, actorID, nil)
}
