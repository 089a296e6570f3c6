package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"go.uber.org/zap"
)

func (uc *DefaultEscrowUsecase) recordDepositMetrics(result string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordDeposit(result)
}

func (uc *DefaultEscrowUsecase) recordGatewayEventMetrics(event *domain.GatewayEvent, outcome chargeOutcome) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordGatewayEvent(string(event.Type), string(outcome))
}

func (uc *DefaultEscrowUsecase) recordConfirmedMetrics(c *domain.Contract, amount int64) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordDeposit(string(outcomeConfirmed))
	uc.Metrics.RecordEscrowConfirmed(c.Currency, amount)
}

func (uc *DefaultEscrowUsecase) recordRefundMetrics(c *domain.Contract, amount int64) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordEscrowRefunded(c.Currency, amount)
}

func (uc *DefaultEscrowUsecase) recordTransitionMetrics(from, to domain.ContractStatus) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordTransition(string(from), string(to))
}

func (uc *DefaultEscrowUsecase) recordErrorMetrics(operation string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordError("escrow_" + operation)
}

func (uc *DefaultEscrowUsecase) publishContractEvent(c *domain.Contract, event string, amount int64) {
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
		ActorID:      domain.SystemActor.UserID,
		Status:       string(c.Status),
		Amount:       amount,
		Currency:     c.Currency,
		OccurredAt:   time.Now(),
	})
}
