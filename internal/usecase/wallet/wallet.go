package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	walletdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/wallet"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

// requireWalletOwner - кошельки есть только у клиентов и фрилансеров
func requireWalletOwner(actor domain.Actor) error {
	if actor.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if !actor.HasRole(domain.RoleClient) && !actor.HasRole(domain.RoleFreelancer) {
		return fmt.Errorf("wallets belong to clients and freelancers: %w", domain.ErrPermissionDenied)
	}
	return nil
}

func (uc *DefaultWalletUsecase) GetWallet(ctx context.Context, actor domain.Actor) ([]*domain.Wallet, error) {
	if err := requireWalletOwner(actor); err != nil {
		return nil, err
	}
	return uc.uow.Repositories().Wallets.ListWallets(ctx, actor.UserID)
}

func (uc *DefaultWalletUsecase) ListWalletTransactions(ctx context.Context, actor domain.Actor, page, limit int) (*walletdto.WalletTransactionsOutput, error) {
	if err := requireWalletOwner(actor); err != nil {
		return nil, err
	}
	txs, total, err := uc.uow.Repositories().Wallets.ListTransactions(ctx, actor.UserID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	return &walletdto.WalletTransactionsOutput{Transactions: txs, Total: total}, nil
}

// RequestWithdrawal резервирует сумму и отправляет перевод через шлюз.
// Окончательный результат приходит событием transfer.*
func (uc *DefaultWalletUsecase) RequestWithdrawal(ctx context.Context, actor domain.Actor, input *walletdto.WithdrawalInput) (*domain.Withdrawal, error) {
	if err := requireWalletOwner(actor); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	verr := &domain.ValidationError{}
	if input.Amount <= 0 {
		verr.Add("amount", "Ensure this value is greater than 0.")
	}
	if !domain.SupportedCurrencies[currency] {
		verr.Add("currency", fmt.Sprintf("%q is not a supported currency.", input.Currency))
	}
	if strings.TrimSpace(input.RecipientCode) == "" {
		verr.Add("recipient_code", "This field is required.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	withdrawal := &domain.Withdrawal{
		ID:            settlement.NewID(),
		UserID:        actor.UserID,
		Currency:      currency,
		Amount:        input.Amount,
		RecipientCode: strings.TrimSpace(input.RecipientCode),
		Reference:     settlement.NewReference("wd"),
		Status:        domain.WithdrawalPending,
	}

	// 1. Резерв и запись о выводе одной транзакцией
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		if err := repos.Wallets.Reserve(ctx, actor.UserID, currency, input.Amount); err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				return domain.NewValidationError("amount", "Insufficient available balance.")
			}
			return err
		}
		if err := repos.Wallets.CreateWithdrawal(ctx, withdrawal); err != nil {
			return err
		}
		return repos.Wallets.CreateTransaction(ctx, &domain.WalletTransaction{
			ID:        settlement.NewID(),
			UserID:    actor.UserID,
			Currency:  currency,
			Type:      domain.WalletTxWithdrawal,
			Amount:    -input.Amount,
			Status:    domain.WalletTxPending,
			Reference: withdrawal.Reference,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reserve withdrawal: %w", err)
	}

	// 2. Перевод через шлюз вне транзакции БД
	result, transferErr := uc.Gateway.InitiateTransfer(ctx, domain.TransferRequest{
		Reference:     withdrawal.Reference,
		RecipientCode: withdrawal.RecipientCode,
		Amount:        withdrawal.Amount,
		Currency:      withdrawal.Currency,
		Reason:        "Freelink wallet withdrawal",
	})
	if transferErr != nil {
		var paymentErr *domain.PaymentError
		if !errors.As(transferErr, &paymentErr) || !paymentErr.Rejected() {
			// шлюз мог принять перевод: резерв держим до вебхука transfer.*
			uc.recordWithdrawalMetrics("unknown")
			uc.Logger.Warn("transfer outcome unknown, waiting for gateway event",
				zap.String("reference", withdrawal.Reference),
				zap.Error(transferErr),
			)
			return withdrawal, nil
		}

		uc.recordWithdrawalMetrics("gateway_error")
		uc.Logger.Warn("transfer rejected by gateway",
			zap.String("reference", withdrawal.Reference),
			zap.Error(transferErr),
		)
		if err := uc.failWithdrawal(ctx, withdrawal.Reference, paymentErr.Message); err != nil {
			uc.Logger.Error("failed to release withdrawal reservation",
				zap.String("reference", withdrawal.Reference),
				zap.Error(err),
			)
		}
		return nil, transferErr
	}

	// 3. Перевод принят шлюзом, ждем вебхук
	err = uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		current, err := repos.Wallets.GetWithdrawalForUpdate(ctx, withdrawal.Reference)
		if err != nil {
			return err
		}
		// вебхук мог прийти раньше
		if current.Status != domain.WithdrawalPending {
			withdrawal = current
			return nil
		}
		current.Status = domain.WithdrawalProcessing
		current.TransferCode = result.TransferCode
		if err := repos.Wallets.UpdateWithdrawal(ctx, current); err != nil {
			return err
		}
		withdrawal = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mark withdrawal processing: %w", err)
	}

	uc.recordWithdrawalMetrics("initiated")
	uc.Logger.Info("withdrawal initiated",
		zap.String("user_id", actor.UserID),
		zap.String("reference", withdrawal.Reference),
		zap.Int64("amount", withdrawal.Amount),
	)
	return withdrawal, nil
}

func (uc *DefaultWalletUsecase) failWithdrawal(ctx context.Context, reference, reason string) error {
	return uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		w, err := repos.Wallets.GetWithdrawalForUpdate(ctx, reference)
		if err != nil {
			return err
		}
		if !inFlight(w.Status) {
			return nil
		}
		return markFailed(ctx, repos, w, reason)
	})
}

func inFlight(status domain.WithdrawalStatus) bool {
	return status == domain.WithdrawalPending || status == domain.WithdrawalProcessing
}

func markFailed(ctx context.Context, repos *domain.Repositories, w *domain.Withdrawal, reason string) error {
	if err := repos.Wallets.ReleaseReservation(ctx, w.UserID, w.Currency, w.Amount); err != nil {
		return err
	}
	w.Status = domain.WithdrawalFailed
	w.FailureReason = reason
	if err := repos.Wallets.UpdateWithdrawal(ctx, w); err != nil {
		return err
	}
	return repos.Wallets.UpdateTransactionStatus(ctx, w.Reference, domain.WalletTxFailed)
}

// SettleTransfer применяет итог перевода. Повторные события ничего не меняют
func (uc *DefaultWalletUsecase) SettleTransfer(ctx context.Context, event *domain.GatewayEvent) error {
	var (
		result string
		w      *domain.Withdrawal
	)
	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		var err error
		w, err = repos.Wallets.GetWithdrawalForUpdate(ctx, event.Reference)
		if err != nil {
			return err
		}

		switch event.Type {
		case domain.TransferSuccess:
			if w.Status == domain.WithdrawalFailed {
				// резерв уже снят, а деньги ушли: резервируем заново и списываем
				if err := repos.Wallets.Reserve(ctx, w.UserID, w.Currency, w.Amount); err != nil {
					return fmt.Errorf("re-reserve paid out withdrawal: %w", err)
				}
				if err := repos.Wallets.DebitReserved(ctx, w.UserID, w.Currency, w.Amount); err != nil {
					return err
				}
				w.Status = domain.WithdrawalSuccessful
				w.FailureReason = ""
				if err := repos.Wallets.UpdateWithdrawal(ctx, w); err != nil {
					return err
				}
				result = "late_success"
				return repos.Wallets.UpdateTransactionStatus(ctx, w.Reference, domain.WalletTxCompleted)
			}
			if !inFlight(w.Status) {
				result = "duplicate"
				return nil
			}
			if err := repos.Wallets.DebitReserved(ctx, w.UserID, w.Currency, w.Amount); err != nil {
				return err
			}
			w.Status = domain.WithdrawalSuccessful
			if event.TransferCode != "" {
				w.TransferCode = event.TransferCode
			}
			if err := repos.Wallets.UpdateWithdrawal(ctx, w); err != nil {
				return err
			}
			result = "successful"
			return repos.Wallets.UpdateTransactionStatus(ctx, w.Reference, domain.WalletTxCompleted)

		case domain.TransferFailed, domain.TransferReversed:
			reason := event.Message
			if reason == "" {
				reason = string(event.Type)
			}
			switch {
			case inFlight(w.Status):
				result = "failed"
				return markFailed(ctx, repos, w, reason)
			case w.Status == domain.WithdrawalSuccessful && event.Type == domain.TransferReversed:
				// деньги вернулись после успешного перевода
				if err := repos.Wallets.Credit(ctx, w.UserID, w.Currency, w.Amount); err != nil {
					return err
				}
				w.Status = domain.WithdrawalFailed
				w.FailureReason = reason
				if err := repos.Wallets.UpdateWithdrawal(ctx, w); err != nil {
					return err
				}
				result = "reversed"
				return repos.Wallets.UpdateTransactionStatus(ctx, w.Reference, domain.WalletTxFailed)
			default:
				result = "duplicate"
				return nil
			}
		}
		return fmt.Errorf("unexpected transfer event %s", event.Type)
	})
	if err != nil {
		return fmt.Errorf("settle transfer %s: %w", event.Reference, err)
	}

	uc.recordWithdrawalMetrics(result)
	if uc.Metrics != nil {
		uc.Metrics.RecordGatewayEvent(string(event.Type), result)
	}
	uc.Logger.Info("transfer settled",
		zap.String("reference", event.Reference),
		zap.String("event", string(event.Type)),
		zap.String("result", result),
		zap.String("user_id", w.UserID),
	)
	return nil
}
