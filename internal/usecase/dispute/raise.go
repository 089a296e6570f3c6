package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	disputedto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/dispute"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

var disputableStatuses = map[domain.ContractStatus]bool{
	domain.ContractPending:    true,
	domain.ContractAccepted:   true,
	domain.ContractInProgress: true,
	domain.ContractSubmitted:  true,
}

// RaiseDispute замораживает контракт: любые движения денег запрещены до решения
func (uc *DefaultDisputeUsecase) RaiseDispute(ctx context.Context, actor domain.Actor, input *disputedto.RaiseDisputeInput) (*domain.Dispute, error) {
	verr := &domain.ValidationError{}
	if !input.Reason.Valid() {
		verr.Add("reason", fmt.Sprintf("%q is not a valid choice.", input.Reason))
	}
	if strings.TrimSpace(input.Description) == "" {
		verr.Add("description", "This field is required.")
	}

	var (
		dispute *domain.Dispute
		from    domain.ContractStatus
		c       *domain.Contract
	)
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		var err error
		c, err = repos.Contracts.GetForUpdate(ctx, input.ContractID)
		if err != nil {
			return err
		}
		if !c.IsParty(actor.UserID) {
			return fmt.Errorf("only contract parties may raise a dispute: %w", domain.ErrPermissionDenied)
		}
		if verr.HasErrors() {
			return verr
		}
		if !disputableStatuses[c.Status] {
			return fmt.Errorf("contract %s is %s: %w", c.ID, c.Status, domain.ErrInvalidState)
		}
		if _, err := repos.Disputes.FindActiveByContract(ctx, c.ID); err == nil {
			return domain.NewValidationError(domain.NonFieldErrors, "This contract already has an open dispute.")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		dispute = &domain.Dispute{
			ID:          settlement.NewID(),
			ContractID:  c.ID,
			RaisedBy:    actor.UserID,
			Reason:      input.Reason,
			Description: strings.TrimSpace(input.Description),
			Status:      domain.DisputeOpen,
		}
		if err := repos.Disputes.Create(ctx, dispute); err != nil {
			return err
		}

		from = c.Status
		c.PreDisputeStatus = from
		return settlement.Transition(ctx, repos, c, domain.ContractDisputed, actor.UserID, domain.AuditDisputeRaised, map[string]any{
			"dispute_id":         dispute.ID,
			"reason":             string(dispute.Reason),
			"pre_dispute_status": string(from),
		})
	})
	if err != nil {
		uc.recordErrorMetrics("raise", err)
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordDisputeOpened(string(dispute.Reason))
	}
	uc.recordTransitionMetrics(from, domain.ContractDisputed)
	uc.Logger.Info("dispute raised",
		zap.String("dispute_id", dispute.ID),
		zap.String("contract_id", c.ID),
		zap.String("raised_by", actor.UserID),
		zap.String("reason", string(dispute.Reason)),
	)
	uc.publishDisputeEvent(dispute, "dispute.raised", actor.UserID)
	uc.publishContractEvent(c, "contract.disputed", actor.UserID, 0)
	return dispute, nil
}
