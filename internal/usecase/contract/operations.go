package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

////////////////////// Safe contract operations //////////////////////////

// ContractOperation - описание операции с контрактом
type ContractOperation struct {
	ContractID  string
	Operation   string // "accept", "reject", "submit", "release", "cancel", "expire", "add_milestone"
	Actor       domain.Actor
	AllowedFrom []domain.ContractStatus
	// NewStatus пустой, если операция не меняет статус сама (Apply может сменить его)
	NewStatus domain.ContractStatus
	Audit     domain.AuditAction
	Details   map[string]any
	// Amount - сумма для события, Apply может заполнить ее сам
	Amount    int64
	Authorize func(c *domain.Contract) error
	Apply     func(ctx context.Context, repos *domain.Repositories, c *domain.Contract) error
}

// operationResult - снимок контракта после коммита для метрик и событий
type operationResult struct {
	contract  *domain.Contract
	oldStatus domain.ContractStatus
}

///////////////////////// Базовая транзакционная функция //////////////////////////

// ProcessContractOperation - базовая функция для всех переходов контракта
func (uc *DefaultContractUsecase) ProcessContractOperation(ctx context.Context, op *ContractOperation) (*domain.Contract, error) {
	// 1. КРИТИЧНО: статус, деньги и журнал в одной транзакции
	result, err := uc.processCriticalOperations(ctx, op)
	if err != nil {
		uc.recordErrorMetrics(op.Operation, err)
		return nil, fmt.Errorf("%s contract %s: %w", op.Operation, op.ContractID, err)
	}

	// 2. НЕКРИТИЧНО: метрики и событие после коммита
	if result.oldStatus != result.contract.Status {
		uc.recordTransitionMetrics(result.oldStatus, result.contract)
	}
	uc.publishContractEvent(result.contract, "contract."+op.Operation, op.Actor.UserID, op.Amount)

	return result.contract, nil
}

// processCriticalOperations - блокировка строки, проверки прав и статуса, изменение
func (uc *DefaultContractUsecase) processCriticalOperations(ctx context.Context, op *ContractOperation) (*operationResult, error) {
	var result operationResult
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		c, err := repos.Contracts.GetForUpdate(ctx, op.ContractID)
		if err != nil {
			return err
		}
		if op.Authorize != nil {
			if err := op.Authorize(c); err != nil {
				return err
			}
		}
		if len(op.AllowedFrom) > 0 && !domain.StatusIn(c.Status, op.AllowedFrom...) {
			return fmt.Errorf("contract is %s: %w", c.Status, domain.ErrInvalidState)
		}

		oldStatus := c.Status
		if op.Apply != nil {
			if err := op.Apply(ctx, repos, c); err != nil {
				return err
			}
		}
		if op.NewStatus != "" {
			c.Status = op.NewStatus
		}
		if c.Status != oldStatus && !domain.CanTransition(oldStatus, c.Status) {
			return fmt.Errorf("contract %s -> %s: %w", oldStatus, c.Status, domain.ErrInvalidState)
		}

		c.RefreshEscrowStatus()
		if err := repos.Contracts.Update(ctx, c, oldStatus); err != nil {
			return err
		}
		if op.Audit != "" {
			if err := settlement.RecordAudit(ctx, repos, c.ID, op.Audit, op.Actor.UserID, op.Details); err != nil {
				return err
			}
		}

		result = operationResult{contract: c, oldStatus: oldStatus}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (uc *DefaultContractUsecase) publishContractEvent(c *domain.Contract, event, actorID string, amount int64) {
	if uc.Publisher == nil {
		return
	}
	go func(e domain.ContractEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.Publisher.PublishContractEvent(ctx, e); err != nil {
			uc.Logger.Error("failed to publish contract event",
				zap.String("event", e.Event),
				zap.String("contract_id", e.ContractID),
				zap.Error(err),
			)
		}
	}(domain.ContractEvent{
		Event:        event,
		ContractID:   c.ID,
		JobID:        c.JobID,
		ClientID:     c.ClientID,
		FreelancerID: c.FreelancerID,
		ActorID:      actorID,
		Status:       string(c.Status),
		Amount:       amount,
		Currency:     c.Currency,
		OccurredAt:   time.Now(),
	})
}

// Проверки прав

func requireClientOf(actor domain.Actor, c *domain.Contract) error {
	if !actor.HasRole(domain.RoleClient) || c.ClientID != actor.UserID {
		return fmt.Errorf("only the contract client may do this: %w", domain.ErrPermissionDenied)
	}
	return nil
}

func requireFreelancerOf(actor domain.Actor, c *domain.Contract) error {
	if !actor.HasRole(domain.RoleFreelancer) || c.FreelancerID != actor.UserID {
		return fmt.Errorf("only the contract freelancer may do this: %w", domain.ErrPermissionDenied)
	}
	return nil
}

func requirePartyOrStaff(actor domain.Actor, c *domain.Contract) error {
	if actor.IsStaff() || c.IsParty(actor.UserID) {
		return nil
	}
	return fmt.Errorf("not a party of this contract: %w", domain.ErrPermissionDenied)
}
