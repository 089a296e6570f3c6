package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	disputedto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/dispute"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

var activeStatuses = []domain.DisputeStatus{domain.DisputeOpen, domain.DisputeUnderReview}

func (uc *DefaultDisputeUsecase) MarkUnderReview(ctx context.Context, actor domain.Actor, disputeID string) (*domain.Dispute, error) {
	d, _, err := uc.ProcessDisputeOperation(ctx, &DisputeOperation{
		DisputeID:   disputeID,
		Operation:   "under_review",
		Actor:       actor,
		AllowedFrom: []domain.DisputeStatus{domain.DisputeOpen},
		Authorize: func(*domain.Dispute, *domain.Contract) error {
			return requireStaff(actor)
		},
		Apply: func(_ context.Context, _ *domain.Repositories, d *domain.Dispute, _ *domain.Contract) error {
			d.Status = domain.DisputeUnderReview
			return nil
		},
	})
	return d, err
}

// ResolveDispute закрывает диспут и размораживает контракт.
// resolved_client отменяет контракт с возвратом остатка эскроу клиенту
func (uc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, actor domain.Actor, input *disputedto.ResolveDisputeInput) (*domain.Dispute, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !input.Resolution.IsResolution() {
		return nil, domain.NewValidationError("resolution", fmt.Sprintf("%q is not a valid choice.", input.Resolution))
	}

	var (
		from     domain.ContractStatus
		refunded int64
	)
	d, c, err := uc.ProcessDisputeOperation(ctx, &DisputeOperation{
		DisputeID:   input.DisputeID,
		Operation:   "resolved",
		Actor:       actor,
		AllowedFrom: activeStatuses,
		Apply: func(ctx context.Context, repos *domain.Repositories, d *domain.Dispute, c *domain.Contract) error {
			if c.Status != domain.ContractDisputed {
				return fmt.Errorf("contract %s is %s: %w", c.ID, c.Status, domain.ErrInvalidState)
			}
			now := time.Now()
			d.Status = input.Resolution
			d.ResolutionNotes = strings.TrimSpace(input.Notes)
			d.ResolvedBy = actor.UserID
			d.ResolvedAt = &now

			from = c.Status
			details := map[string]any{
				"dispute_id": d.ID,
				"resolution": string(input.Resolution),
			}

			if input.Resolution == domain.DisputeResolvedClient {
				var err error
				refunded, err = settlement.RefundEscrow(ctx, repos, c)
				if err != nil {
					return err
				}
				c.CancelledAt = &now
				c.CancelReason = "dispute resolved in favour of the client"
				c.ExpiresAt = nil
				c.PreDisputeStatus = ""
				details["refunded"] = refunded
				if err := settlement.Transition(ctx, repos, c, domain.ContractCancelled, actor.UserID, domain.AuditDisputeResolved, details); err != nil {
					return err
				}
				if refunded > 0 {
					return settlement.RecordAudit(ctx, repos, c.ID, domain.AuditEscrowRefunded, actor.UserID, map[string]any{
						"amount":     refunded,
						"dispute_id": d.ID,
					})
				}
				return nil
			}

			resume := c.PreDisputeStatus
			if c.FullyFunded() || resume == "" || resume == domain.ContractSubmitted {
				resume = domain.ContractInProgress
			}
			c.PreDisputeStatus = ""
			details["resumed_status"] = string(resume)
			return settlement.Transition(ctx, repos, c, resume, actor.UserID, domain.AuditDisputeResolved, details)
		},
	})
	if err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordDisputeResolved(string(d.Status))
		if refunded > 0 {
			uc.Metrics.RecordEscrowRefunded(c.Currency, refunded)
		}
	}
	uc.recordTransitionMetrics(from, c.Status)
	uc.Logger.Info("dispute resolved",
		zap.String("dispute_id", d.ID),
		zap.String("contract_id", c.ID),
		zap.String("resolution", string(d.Status)),
		zap.String("contract_status", string(c.Status)),
		zap.Int64("refunded", refunded),
	)
	uc.publishContractEvent(c, "contract."+string(c.Status), actor.UserID, refunded)
	return d, nil
}
