package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

const expiredCancelReason = "expired: not accepted in time"

// CancelContract - отмена до начала работ. Позже только через диспут
func (uc *DefaultContractUsecase) CancelContract(ctx context.Context, actor domain.Actor, contractID, reason string) (*domain.Contract, error) {
	var refunded int64
	contract, err := uc.ProcessContractOperation(ctx, &ContractOperation{
		ContractID:  contractID,
		Operation:   "cancelled",
		Actor:       actor,
		AllowedFrom: []domain.ContractStatus{domain.ContractPending, domain.ContractAccepted},
		NewStatus:   domain.ContractCancelled,
		Audit:       domain.AuditContractCancelled,
		Details:     map[string]any{"reason": strings.TrimSpace(reason)},
		Authorize: func(c *domain.Contract) error {
			return requirePartyOrStaff(actor, c)
		},
		Apply: func(ctx context.Context, repos *domain.Repositories, c *domain.Contract) error {
			amount, err := cancelAndRefund(ctx, repos, c, strings.TrimSpace(reason), actor.UserID)
			refunded = amount
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	uc.recordRefundMetrics(contract, refunded)
	return contract, nil
}

func cancelAndRefund(ctx context.Context, repos *domain.Repositories, c *domain.Contract, reason, actorID string) (int64, error) {
	now := time.Now()
	c.CancelReason = reason
	c.CancelledAt = &now
	c.ExpiresAt = nil

	amount, err := settlement.RefundEscrow(ctx, repos, c)
	if err != nil {
		return 0, err
	}
	if amount > 0 {
		if err := settlement.RecordAudit(ctx, repos, c.ID, domain.AuditEscrowRefunded, actorID, map[string]any{"amount": amount}); err != nil {
			return 0, err
		}
	}
	return amount, nil
}

// ExpirePendingContracts отменяет контракты, которые фрилансер не принял до истечения срока
func (uc *DefaultContractUsecase) ExpirePendingContracts(ctx context.Context) (int, error) {
	expired, err := uc.uow.Repositories().Contracts.FindExpiredPending(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("find expired contracts: %w", err)
	}

	var (
		errs    []error
		handled int
	)
	for _, c := range expired {
		_, err := uc.ProcessContractOperation(ctx, &ContractOperation{
			ContractID:  c.ID,
			Operation:   "expired",
			Actor:       domain.SystemActor,
			AllowedFrom: []domain.ContractStatus{domain.ContractPending},
			NewStatus:   domain.ContractCancelled,
			Audit:       domain.AuditContractExpired,
			Apply: func(ctx context.Context, repos *domain.Repositories, c *domain.Contract) error {
				_, err := cancelAndRefund(ctx, repos, c, expiredCancelReason, domain.SystemActor.UserID)
				return err
			},
		})
		switch {
		case err == nil:
			handled++
		case errors.Is(err, domain.ErrInvalidState):
			// успели принять или отменить параллельно
			uc.Logger.Debug("skip expiring contract", zap.String("contract_id", c.ID), zap.Error(err))
		default:
			errs = append(errs, err)
		}
	}

	if handled > 0 {
		uc.Logger.Info("expired pending contracts", zap.Int("count", handled))
	}
	return handled, errors.Join(errs...)
}
