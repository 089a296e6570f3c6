package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	escrowdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/escrow"
	"go.uber.org/zap"
)

type EscrowUsecase interface {
	DepositEscrow(ctx context.Context, actor domain.Actor, input *escrowdto.DepositInput) (*escrowdto.DepositOutput, error)
	ReconcileGatewayEvent(ctx context.Context, event *domain.GatewayEvent) error
	VerifyDeposit(ctx context.Context, actor domain.Actor, reference string) (*domain.EscrowTransaction, error)
	ReconcileStaleDeposits(ctx context.Context, olderThan time.Duration) (int, error)
	ListEscrowTransactions(ctx context.Context, actor domain.Actor, contractID string) ([]*domain.EscrowTransaction, error)
}

// Deduper - быстрый фильтр повторных событий шлюза
type Deduper interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
	Forget(ctx context.Context, scope, key string)
}

// TransferSettler завершает выводы средств по событиям transfer.*
type TransferSettler interface {
	SettleTransfer(ctx context.Context, event *domain.GatewayEvent) error
}

type DefaultEscrowUsecase struct {
	uow         domain.UnitOfWork
	Gateway     domain.PaymentGateway
	Deduper     Deduper
	Transfers   TransferSettler
	Publisher   domain.EventPublisher
	Metrics     *metrics.ContractMetrics
	Logger      *zap.Logger
	CallbackURL string
	StaleBatch  int
}

func NewDefaultEscrowUsecase(
	uow domain.UnitOfWork,
	gateway domain.PaymentGateway,
	deduper Deduper,
	transfers TransferSettler,
	eventPublisher domain.EventPublisher,
	contractMetrics *metrics.ContractMetrics,
	logger *zap.Logger,
	callbackURL string,
	staleBatch int,
) *DefaultEscrowUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if staleBatch <= 0 {
		staleBatch = 50
	}
	return &DefaultEscrowUsecase{
		uow:         uow,
		Gateway:     gateway,
		Deduper:     deduper,
		Transfers:   transfers,
		Publisher:   eventPublisher,
		Metrics:     contractMetrics,
		Logger:      logger,
		CallbackURL: callbackURL,
		StaleBatch:  staleBatch,
	}
}
