package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"go.uber.org/zap"
)

////////////////////// Dispute operations //////////////////////////

// DisputeOperation - описание операции над диспутом и связанным контрактом
type DisputeOperation struct {
	DisputeID string
	Operation string // "under_review", "resolved"
	Actor     domain.Actor
	// AllowedFrom - статусы диспута, из которых операция разрешена
	AllowedFrom []domain.DisputeStatus
	Authorize   func(d *domain.Dispute, c *domain.Contract) error
	// Apply меняет диспут и, при необходимости, контракт внутри транзакции
	Apply func(ctx context.Context, repos *domain.Repositories, d *domain.Dispute, c *domain.Contract) error
}

// ProcessDisputeOperation - базовая функция для всех операций с диспутами
func (uc *DefaultDisputeUsecase) ProcessDisputeOperation(ctx context.Context, op *DisputeOperation) (*domain.Dispute, *domain.Contract, error) {
	var (
		dispute  *domain.Dispute
		contract *domain.Contract
	)

	// 1. КРИТИЧНО: диспут, контракт и деньги меняются атомарно
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		d, err := repos.Disputes.GetByID(ctx, op.DisputeID)
		if err != nil {
			return err
		}
		c, err := repos.Contracts.GetForUpdate(ctx, d.ContractID)
		if err != nil {
			return err
		}
		if op.Authorize != nil {
			if err := op.Authorize(d, c); err != nil {
				return err
			}
		}
		if !disputeStatusIn(d.Status, op.AllowedFrom) {
			return fmt.Errorf("dispute %s is %s: %w", d.ID, d.Status, domain.ErrInvalidState)
		}
		old := d.Status
		if err := op.Apply(ctx, repos, d, c); err != nil {
			return err
		}
		if err := repos.Disputes.Update(ctx, d, old); err != nil {
			return err
		}
		dispute, contract = d, c
		return nil
	})
	if err != nil {
		uc.recordErrorMetrics(op.Operation, err)
		return nil, nil, err
	}

	// 2. НЕКРИТИЧНО: событие для сервиса уведомлений
	uc.publishDisputeEvent(dispute, "dispute."+op.Operation, op.Actor.UserID)
	uc.Logger.Info("dispute operation applied",
		zap.String("dispute_id", dispute.ID),
		zap.String("contract_id", contract.ID),
		zap.String("operation", op.Operation),
		zap.String("status", string(dispute.Status)),
	)
	return dispute, contract, nil
}

func disputeStatusIn(status domain.DisputeStatus, allowed []domain.DisputeStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

func (uc *DefaultDisputeUsecase) publishDisputeEvent(d *domain.Dispute, event, actorID string) {
	if uc.Publisher == nil {
		return
	}
	go func(e domain.DisputeEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.Publisher.PublishDisputeEvent(ctx, e); err != nil {
			uc.Logger.Error("failed to publish dispute event",
				zap.String("event", e.Event),
				zap.String("dispute_id", e.DisputeID),
				zap.Error(err),
			)
		}
	}(domain.DisputeEvent{
		Event:      event,
		DisputeID:  d.ID,
		ContractID: d.ContractID,
		RaisedBy:   d.RaisedBy,
		ActorID:    actorID,
		Reason:     string(d.Reason),
		Status:     string(d.Status),
		OccurredAt: time.Now(),
	})
}

func (uc *DefaultDisputeUsecase) publishContractEvent(c *domain.Contract, event, actorID string, amount int64) {
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

// Метрики

func (uc *DefaultDisputeUsecase) recordErrorMetrics(operation string, err error) {
	if uc.Metrics == nil || err == nil {
		return
	}
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrPermissionDenied),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidState):
		return
	}
	uc.Metrics.RecordError("dispute_" + operation)
}

func (uc *DefaultDisputeUsecase) recordTransitionMetrics(from, to domain.ContractStatus) {
	if uc.Metrics == nil || from == to {
		return
	}
	uc.Metrics.RecordTransition(string(from), string(to))
}

// Проверки прав

func requireStaff(actor domain.Actor) error {
	if !actor.IsStaff() {
		return fmt.Errorf("only staff may do this: %w", domain.ErrPermissionDenied)
	}
	return nil
}

func requirePartyOrStaff(actor domain.Actor, c *domain.Contract) error {
	if actor.IsStaff() || c.IsParty(actor.UserID) {
		return nil
	}
	return fmt.Errorf("not a party of contract %s: %w", c.ID, domain.ErrPermissionDenied)
}
