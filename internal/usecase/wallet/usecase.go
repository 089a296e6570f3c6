package usecase

import (
	"context"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	walletdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/wallet"
	"go.uber.org/zap"
)

type WalletUsecase interface {
	GetWallet(ctx context.Context, actor domain.Actor) ([]*domain.Wallet, error)
	ListWalletTransactions(ctx context.Context, actor domain.Actor, page, limit int) (*walletdto.WalletTransactionsOutput, error)
	RequestWithdrawal(ctx context.Context, actor domain.Actor, input *walletdto.WithdrawalInput) (*domain.Withdrawal, error)
	SettleTransfer(ctx context.Context, event *domain.GatewayEvent) error
}

type DefaultWalletUsecase struct {
	uow     domain.UnitOfWork
	Gateway domain.PaymentGateway
	Metrics *metrics.ContractMetrics
	Logger  *zap.Logger
}

func NewDefaultWalletUsecase(uow domain.UnitOfWork, gateway domain.PaymentGateway, contractMetrics *metrics.ContractMetrics, logger *zap.Logger) *DefaultWalletUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultWalletUsecase{
		uow:     uow,
		Gateway: gateway,
		Metrics: contractMetrics,
		Logger:  logger,
	}
}

func (uc *DefaultWalletUsecase) recordWithdrawalMetrics(result string) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordWithdrawal(result)
}
