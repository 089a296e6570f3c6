package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	escrowdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/escrow"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

// DepositEscrow открывает платежную сессию у шлюза. Средства зачисляются на эскроу
// только после подтверждения через ReconcileGatewayEvent
func (uc *DefaultEscrowUsecase) DepositEscrow(ctx context.Context, actor domain.Actor, input *escrowdto.DepositInput) (*escrowdto.DepositOutput, error) {
	repos := uc.uow.Repositories()
	contract, err := repos.Contracts.GetByID(ctx, input.ContractID)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(domain.RoleClient) || contract.ClientID != actor.UserID {
		return nil, fmt.Errorf("only the contract client can fund escrow: %w", domain.ErrPermissionDenied)
	}

	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey != "" {
		existing, err := repos.Escrow.GetByIdempotencyKey(ctx, contract.ID, idempotencyKey)
		switch {
		case err == nil:
			return &escrowdto.DepositOutput{Transaction: existing, Replayed: true}, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	if !domain.StatusIn(contract.Status, domain.ContractAccepted, domain.ContractInProgress) {
		return nil, fmt.Errorf("cannot fund a %s contract: %w", contract.Status, domain.ErrInvalidState)
	}
	remaining := contract.RemainingToFund()
	if remaining == 0 {
		return nil, fmt.Errorf("escrow already fully funded: %w", domain.ErrInvalidState)
	}
	pending, err := pendingDeposits(ctx, repos, contract.ID)
	if err != nil {
		return nil, err
	}
	// незавершенные сессии оплаты тоже занимают остаток, иначе параллельные депозиты переплатят эскроу
	if remaining -= pending; remaining <= 0 {
		return nil, fmt.Errorf("pending deposits already cover the escrow balance: %w", domain.ErrInvalidState)
	}

	verr := &domain.ValidationError{}
	if input.Amount <= 0 {
		verr.Add("amount", "Ensure this value is greater than 0.")
	} else if input.Amount > remaining {
		verr.Add("amount", fmt.Sprintf("Amount exceeds the remaining escrow balance of %d.", remaining))
	}
	if actor.Email == "" {
		verr.Add(domain.NonFieldErrors, "A verified email is required to initialize payment.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	// Шлюз вызывается до любой записи: при отказе состояние не меняется
	reference := settlement.NewReference("esc")
	session, err := uc.Gateway.InitializeCharge(ctx, domain.ChargeRequest{
		Reference:   reference,
		Email:       actor.Email,
		Amount:      input.Amount,
		Currency:    contract.Currency,
		CallbackURL: uc.CallbackURL,
		Metadata: map[string]string{
			"contract_id": contract.ID,
			"client_id":   contract.ClientID,
		},
	})
	if err != nil {
		uc.recordDepositMetrics("gateway_error")
		uc.Logger.Warn("charge initialization failed",
			zap.String("contract_id", contract.ID),
			zap.String("reference", reference),
			zap.Error(err),
		)
		return nil, asPaymentError("initialize", err)
	}

	tx := &domain.EscrowTransaction{
		ID:               settlement.NewID(),
		ContractID:       contract.ID,
		Kind:             domain.EscrowDeposit,
		Amount:           input.Amount,
		Currency:         contract.Currency,
		Reference:        session.Reference,
		IdempotencyKey:   idempotencyKey,
		AuthorizationURL: session.AuthorizationURL,
		Status:           domain.EscrowTxInitiated,
	}
	if err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		return repos.Escrow.Create(ctx, tx)
	}); err != nil {
		// параллельный запрос с тем же ключом успел раньше
		if idempotencyKey != "" {
			if existing, lookupErr := repos.Escrow.GetByIdempotencyKey(ctx, contract.ID, idempotencyKey); lookupErr == nil {
				return &escrowdto.DepositOutput{Transaction: existing, Replayed: true}, nil
			}
		}
		uc.recordErrorMetrics("deposit")
		return nil, fmt.Errorf("store escrow deposit: %w", err)
	}

	uc.recordDepositMetrics("initiated")
	uc.Logger.Info("escrow deposit initiated",
		zap.String("contract_id", contract.ID),
		zap.String("reference", tx.Reference),
		zap.Int64("amount", tx.Amount),
	)
	return &escrowdto.DepositOutput{Transaction: tx}, nil
}

// pendingDeposits - сумма депозитов, ожидающих подтверждения от шлюза
func pendingDeposits(ctx context.Context, repos *domain.Repositories, contractID string) (int64, error) {
	txs, err := repos.Escrow.ListByContract(ctx, contractID)
	if err != nil {
		return 0, fmt.Errorf("list escrow transactions: %w", err)
	}
	var total int64
	for _, tx := range txs {
		if tx.Kind == domain.EscrowDeposit && tx.Status == domain.EscrowTxInitiated {
			total += tx.Amount
		}
	}
	return total, nil
}

func asPaymentError(op string, err error) error {
	var paymentErr *domain.PaymentError
	if errors.As(err, &paymentErr) {
		return err
	}
	return &domain.PaymentError{Op: op, Message: err.Error(), Err: err}
}
