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

type chargeOutcome string

const (
	outcomeConfirmed chargeOutcome = "confirmed"
	outcomeRefunded  chargeOutcome = "refunded"
	outcomeFailed    chargeOutcome = "failed"
	outcomeMismatch  chargeOutcome = "mismatch"
	outcomeDuplicate chargeOutcome = "duplicate"
	outcomeUnknown   chargeOutcome = "unknown_reference"
	outcomeIgnored   chargeOutcome = "ignored"
)

// chargeResult - итог применения события, используется после коммита
type chargeResult struct {
	outcome   chargeOutcome
	contract  *domain.Contract
	tx        *domain.EscrowTransaction
	oldStatus domain.ContractStatus
}

// ReconcileGatewayEvent - единственный путь подтверждения денег на эскроу
// (вебхук, verify, фоновая сверка). Повторные события ничего не меняют
func (uc *DefaultEscrowUsecase) ReconcileGatewayEvent(ctx context.Context, event *domain.GatewayEvent) error {
	if event.Type.IsTransfer() {
		if uc.Transfers == nil {
			uc.Logger.Warn("transfer event without settler", zap.String("reference", event.Reference))
			return nil
		}
		err := uc.Transfers.SettleTransfer(ctx, event)
		if errors.Is(err, domain.ErrNotFound) {
			uc.recordGatewayEventMetrics(event, outcomeUnknown)
			uc.Logger.Warn("transfer event for unknown withdrawal", zap.String("reference", event.Reference))
			return nil
		}
		return err
	}

	if event.Type != domain.ChargeSuccess && event.Type != domain.ChargeFailed {
		uc.recordGatewayEventMetrics(event, outcomeIgnored)
		return nil
	}

	scope := string(event.Type)
	if uc.Deduper != nil && !uc.Deduper.AcquireOnce(ctx, scope, event.Reference) {
		uc.recordGatewayEventMetrics(event, outcomeDuplicate)
		return nil
	}

	result, err := uc.applyCharge(ctx, event)
	if err != nil {
		if uc.Deduper != nil {
			uc.Deduper.Forget(ctx, scope, event.Reference)
		}
		if errors.Is(err, domain.ErrNotFound) {
			uc.recordGatewayEventMetrics(event, outcomeUnknown)
			uc.Logger.Warn("gateway event for unknown reference",
				zap.String("event", string(event.Type)),
				zap.String("reference", event.Reference),
			)
			return nil
		}
		uc.recordErrorMetrics("reconcile")
		return fmt.Errorf("reconcile %s %s: %w", event.Type, event.Reference, err)
	}

	uc.recordGatewayEventMetrics(event, result.outcome)
	uc.afterCharge(result)
	return nil
}

func (uc *DefaultEscrowUsecase) applyCharge(ctx context.Context, event *domain.GatewayEvent) (*chargeResult, error) {
	result := &chargeResult{}
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		tx, err := repos.Escrow.GetByReferenceForUpdate(ctx, event.Reference)
		if err != nil {
			return err
		}
		if tx.Kind != domain.EscrowDeposit {
			return fmt.Errorf("escrow %s transaction %s: %w", tx.Kind, tx.Reference, domain.ErrNotFound)
		}
		result.tx = tx
		if tx.Status != domain.EscrowTxInitiated {
			result.outcome = outcomeDuplicate
			return nil
		}

		now := time.Now()
		if event.Type == domain.ChargeFailed {
			result.outcome = outcomeFailed
			tx.Status = domain.EscrowTxFailed
			tx.FailureReason = failureReason(event)
			return repos.Escrow.UpdateStatus(ctx, tx.ID, domain.EscrowTxInitiated, domain.EscrowTxFailed, tx.FailureReason, nil)
		}

		if event.Amount != tx.Amount || (event.Currency != "" && !strings.EqualFold(event.Currency, tx.Currency)) {
			result.outcome = outcomeMismatch
			tx.Status = domain.EscrowTxFailed
			tx.FailureReason = fmt.Sprintf("amount mismatch: expected %d %s, got %d %s", tx.Amount, tx.Currency, event.Amount, event.Currency)
			return repos.Escrow.UpdateStatus(ctx, tx.ID, domain.EscrowTxInitiated, domain.EscrowTxFailed, tx.FailureReason, nil)
		}

		if err := repos.Escrow.UpdateStatus(ctx, tx.ID, domain.EscrowTxInitiated, domain.EscrowTxConfirmed, "", &now); err != nil {
			return err
		}
		tx.Status = domain.EscrowTxConfirmed
		tx.ConfirmedAt = &now

		contract, err := repos.Contracts.GetForUpdate(ctx, tx.ContractID)
		if err != nil {
			return err
		}
		result.contract = contract
		result.oldStatus = contract.Status
		contract.EscrowFunded += tx.Amount

		actorID := domain.SystemActor.UserID
		details := map[string]any{"reference": tx.Reference, "amount": tx.Amount}

		switch contract.Status {
		case domain.ContractCancelled, domain.ContractRejected, domain.ContractCompleted:
			// деньги пришли после завершения контракта: сразу возвращаем клиенту
			result.outcome = outcomeRefunded
			refunded, err := settlement.RefundEscrow(ctx, repos, contract)
			if err != nil {
				return err
			}
			details["refunded"] = refunded
			contract.RefreshEscrowStatus()
			if err := repos.Contracts.Update(ctx, contract, contract.Status); err != nil {
				return err
			}
			return settlement.RecordAudit(ctx, repos, contract.ID, domain.AuditEscrowRefunded, actorID, details)
		}

		result.outcome = outcomeConfirmed
		excess, err := settlement.RefundOverfunding(ctx, repos, contract)
		if err != nil {
			return err
		}
		if excess > 0 {
			details["refunded"] = excess
		}
		if _, err := settlement.FundMilestones(ctx, repos, contract); err != nil {
			return err
		}
		contract.RefreshEscrowStatus()
		if err := repos.Contracts.Update(ctx, contract, contract.Status); err != nil {
			return err
		}
		if err := settlement.RecordAudit(ctx, repos, contract.ID, domain.AuditEscrowDeposited, actorID, details); err != nil {
			return err
		}

		// диспут замораживает переходы, деньги просто зачисляются
		if contract.Status == domain.ContractAccepted && contract.FullyFunded() {
			return settlement.Transition(ctx, repos, contract, domain.ContractInProgress, actorID, domain.AuditWorkStarted, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func failureReason(event *domain.GatewayEvent) string {
	if event.Message != "" {
		return event.Message
	}
	if event.GatewayStatus != "" {
		return event.GatewayStatus
	}
	return "charge failed"
}

// afterCharge - метрики, логи и события после коммита
func (uc *DefaultEscrowUsecase) afterCharge(result *chargeResult) {
	switch result.outcome {
	case outcomeConfirmed:
		c := result.contract
		uc.recordConfirmedMetrics(c, result.tx.Amount)
		uc.Logger.Info("escrow deposit confirmed",
			zap.String("contract_id", c.ID),
			zap.String("reference", result.tx.Reference),
			zap.Int64("amount", result.tx.Amount),
			zap.Int64("escrow_funded", c.EscrowFunded),
		)
		uc.publishContractEvent(c, "contract.escrow_deposited", result.tx.Amount)
		if result.oldStatus != c.Status {
			uc.recordTransitionMetrics(result.oldStatus, c.Status)
			uc.publishContractEvent(c, "contract.work_started", 0)
		}
	case outcomeRefunded:
		c := result.contract
		uc.recordConfirmedMetrics(c, result.tx.Amount)
		uc.recordRefundMetrics(c, result.tx.Amount)
		uc.Logger.Info("late deposit refunded to client",
			zap.String("contract_id", c.ID),
			zap.String("status", string(c.Status)),
			zap.Int64("amount", result.tx.Amount),
		)
		uc.publishContractEvent(c, "contract.escrow_refunded", result.tx.Amount)
	case outcomeMismatch:
		uc.Logger.Warn("escrow deposit rejected",
			zap.String("reference", result.tx.Reference),
			zap.String("reason", result.tx.FailureReason),
		)
	case outcomeFailed:
		uc.Logger.Info("escrow deposit failed",
			zap.String("reference", result.tx.Reference),
			zap.String("reason", result.tx.FailureReason),
		)
	}
}

// VerifyDeposit запрашивает статус платежа у шлюза и проводит его через сверку
func (uc *DefaultEscrowUsecase) VerifyDeposit(ctx context.Context, actor domain.Actor, reference string) (*domain.EscrowTransaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domain.NewValidationError("reference", "This field is required.")
	}
	repos := uc.uow.Repositories()
	tx, err := repos.Escrow.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	contract, err := repos.Contracts.GetByID(ctx, tx.ContractID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !contract.IsParty(actor.UserID) {
		return nil, fmt.Errorf("not a party of this contract: %w", domain.ErrPermissionDenied)
	}
	if tx.Status != domain.EscrowTxInitiated {
		return tx, nil
	}

	if err := uc.verifyAndReconcile(ctx, reference); err != nil {
		return nil, err
	}
	return repos.Escrow.GetByReference(ctx, reference)
}

func (uc *DefaultEscrowUsecase) verifyAndReconcile(ctx context.Context, reference string) error {
	event, err := uc.Gateway.VerifyCharge(ctx, reference)
	if err != nil {
		return asPaymentError("verify", err)
	}
	if event.Type == domain.ChargePending {
		return nil
	}
	return uc.ReconcileGatewayEvent(ctx, event)
}

// ReconcileStaleDeposits - фоновая сверка депозитов, по которым не пришел вебхук
func (uc *DefaultEscrowUsecase) ReconcileStaleDeposits(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := uc.uow.Repositories().Escrow.FindStaleDeposits(ctx, time.Now().Add(-olderThan), uc.StaleBatch)
	if err != nil {
		return 0, fmt.Errorf("find stale deposits: %w", err)
	}

	var errs []error
	checked := 0
	for _, tx := range stale {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := uc.verifyAndReconcile(ctx, tx.Reference); err != nil {
			errs = append(errs, fmt.Errorf("deposit %s: %w", tx.Reference, err))
			continue
		}
		checked++
	}
	if len(stale) > 0 {
		uc.Logger.Info("stale deposits reconciled", zap.Int("found", len(stale)), zap.Int("checked", checked))
	}
	return checked, errors.Join(errs...)
}

func (uc *DefaultEscrowUsecase) ListEscrowTransactions(ctx context.Context, actor domain.Actor, contractID string) ([]*domain.EscrowTransaction, error) {
	repos := uc.uow.Repositories()
	contract, err := repos.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !contract.IsParty(actor.UserID) {
		return nil, fmt.Errorf("not a party of this contract: %w", domain.ErrPermissionDenied)
	}
	return repos.Escrow.ListByContract(ctx, contractID)
}
