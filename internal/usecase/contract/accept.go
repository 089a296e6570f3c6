package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

func (uc *DefaultContractUsecase) AcceptContract(ctx context.Context, actor domain.Actor, contractID string) (*domain.Contract, error) {
	return uc.ProcessContractOperation(ctx, &ContractOperation{
		ContractID:  contractID,
		Operation:   "accepted",
		Actor:       actor,
		AllowedFrom: []domain.ContractStatus{domain.ContractPending},
		NewStatus:   domain.ContractAccepted,
		Audit:       domain.AuditContractAccepted,
		Authorize: func(c *domain.Contract) error {
			return requireFreelancerOf(actor, c)
		},
		Apply: func(_ context.Context, _ *domain.Repositories, c *domain.Contract) error {
			c.ExpiresAt = nil
			return nil
		},
	})
}

func (uc *DefaultContractUsecase) RejectContract(ctx context.Context, actor domain.Actor, contractID string) (*domain.Contract, error) {
	return uc.ProcessContractOperation(ctx, &ContractOperation{
		ContractID:  contractID,
		Operation:   "rejected",
		Actor:       actor,
		AllowedFrom: []domain.ContractStatus{domain.ContractPending},
		NewStatus:   domain.ContractRejected,
		Audit:       domain.AuditContractRejected,
		Authorize: func(c *domain.Contract) error {
			return requireFreelancerOf(actor, c)
		},
		Apply: func(_ context.Context, _ *domain.Repositories, c *domain.Contract) error {
			now := time.Now()
			c.ExpiresAt = nil
			c.CancelledAt = &now
			return nil
		},
	})
}

func (uc *DefaultContractUsecase) SubmitWork(ctx context.Context, actor domain.Actor, contractID string) (*domain.Contract, error) {
	return uc.ProcessContractOperation(ctx, &ContractOperation{
		ContractID:  contractID,
		Operation:   "submitted",
		Actor:       actor,
		AllowedFrom: []domain.ContractStatus{domain.ContractInProgress},
		NewStatus:   domain.ContractSubmitted,
		Audit:       domain.AuditWorkSubmitted,
		Authorize: func(c *domain.Contract) error {
			return requireFreelancerOf(actor, c)
		},
	})
}
