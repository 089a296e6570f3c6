package usecase

import (
	"context"
	"fmt"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	contractdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/contract"
)

func (uc *DefaultContractUsecase) GetContract(ctx context.Context, actor domain.Actor, contractID string) (*contractdto.ContractDetailsOutput, error) {
	repos := uc.uow.Repositories()
	c, err := repos.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := requirePartyOrStaff(actor, c); err != nil {
		return nil, err
	}

	c.Milestones, err = repos.Milestones.ListByContract(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	audit, err := repos.Audit.ListByContract(ctx, c.ID, recentAuditLimit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return &contractdto.ContractDetailsOutput{Contract: c, RecentAudit: audit}, nil
}

// ListContracts - контракты, где пользователь участвует. Staff видит все
func (uc *DefaultContractUsecase) ListContracts(ctx context.Context, actor domain.Actor, input *contractdto.ListContractsInput) (*contractdto.ContractListOutput, error) {
	partyID := actor.UserID
	if actor.IsStaff() {
		partyID = ""
	}
	return uc.listContracts(ctx, partyID, input)
}

func (uc *DefaultContractUsecase) ListUserContracts(ctx context.Context, actor domain.Actor, userID string, input *contractdto.ListContractsInput) (*contractdto.ContractListOutput, error) {
	if userID != actor.UserID && !actor.IsStaff() {
		return nil, fmt.Errorf("contracts of another user: %w", domain.ErrPermissionDenied)
	}
	return uc.listContracts(ctx, userID, input)
}

func (uc *DefaultContractUsecase) listContracts(ctx context.Context, partyID string, input *contractdto.ListContractsInput) (*contractdto.ContractListOutput, error) {
	contracts, total, err := uc.uow.Repositories().Contracts.List(ctx, domain.ContractFilter{
		PartyID: partyID,
		Status:  input.Status,
		Page:    input.Page,
		Limit:   input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return &contractdto.ContractListOutput{Contracts: contracts, Total: total}, nil
}

func (uc *DefaultContractUsecase) GetAuditTrail(ctx context.Context, actor domain.Actor, contractID string) ([]*domain.AuditEntry, error) {
	repos := uc.uow.Repositories()
	c, err := repos.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := requirePartyOrStaff(actor, c); err != nil {
		return nil, err
	}
	return repos.Audit.ListByContract(ctx, contractID, 0)
}
