package usecase

import (
	"errors"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

func (uc *DefaultContractUsecase) recordContractCreatedMetrics(c *domain.Contract) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordContractCreated(c.Currency, c.AgreedBid)
}

// recordTransitionMetrics - вызывается после каждого коммита со сменой статуса
func (uc *DefaultContractUsecase) recordTransitionMetrics(from domain.ContractStatus, c *domain.Contract) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordTransition(string(from), string(c.Status))
	if c.Status == domain.ContractCompleted && c.CompletedAt != nil {
		uc.Metrics.RecordCompletion(c.CreatedAt, *c.CompletedAt)
	}
}

func (uc *DefaultContractUsecase) recordReleaseMetrics(c *domain.Contract, amount, refunded int64) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordMilestoneReleased(c.Currency, amount)
	if refunded > 0 {
		uc.Metrics.RecordEscrowRefunded(c.Currency, refunded)
	}
}

func (uc *DefaultContractUsecase) recordRefundMetrics(c *domain.Contract, refunded int64) {
	if uc.Metrics == nil || refunded <= 0 {
		return
	}
	uc.Metrics.RecordEscrowRefunded(c.Currency, refunded)
}

// recordErrorMetrics считает только внутренние сбои, не отказы по правам и состоянию
func (uc *DefaultContractUsecase) recordErrorMetrics(operation string, err error) {
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
	uc.Metrics.RecordError("contract_" + operation)
}
