package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	contractdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/contract"
	"go.uber.org/zap"
)

type ContractUsecase interface {
	CreateContract(ctx context.Context, actor domain.Actor, input *contractdto.CreateContractInput) (*domain.Contract, error)
	AcceptContract(ctx context.Context, actor domain.Actor, contractID string) (*domain.Contract, error)
	RejectContract(ctx context.Context, actor domain.Actor, contractID string) (*domain.Contract, error)
	SubmitWork(ctx context.Context, actor domain.Actor, contractID string) (*domain.Contract, error)
	ReleaseMilestone(ctx context.Context, actor domain.Actor, contractID, milestoneID string) (*domain.Contract, error)
	CancelContract(ctx context.Context, actor domain.Actor, contractID, reason string) (*domain.Contract, error)
	ExpirePendingContracts(ctx context.Context) (int, error)

	GetContract(ctx context.Context, actor domain.Actor, contractID string) (*contractdto.ContractDetailsOutput, error)
	ListContracts(ctx context.Context, actor domain.Actor, input *contractdto.ListContractsInput) (*contractdto.ContractListOutput, error)
	ListUserContracts(ctx context.Context, actor domain.Actor, userID string, input *contractdto.ListContractsInput) (*contractdto.ContractListOutput, error)
	ListMilestones(ctx context.Context, actor domain.Actor, contractID string) ([]*domain.Milestone, error)
	AddMilestone(ctx context.Context, actor domain.Actor, contractID string, input *contractdto.MilestoneInput) (*domain.Milestone, error)
	GetAuditTrail(ctx context.Context, actor domain.Actor, contractID string) ([]*domain.AuditEntry, error)
}

type DefaultContractUsecase struct {
	uow        domain.UnitOfWork
	Publisher  domain.EventPublisher
	Metrics    *metrics.ContractMetrics
	Logger     *zap.Logger
	PendingTTL time.Duration
}

func NewDefaultContractUsecase(
	uow domain.UnitOfWork,
	eventPublisher domain.EventPublisher,
	contractMetrics *metrics.ContractMetrics,
	logger *zap.Logger,
	pendingTTL time.Duration,
) *DefaultContractUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pendingTTL <= 0 {
		pendingTTL = 7 * 24 * time.Hour
	}
	return &DefaultContractUsecase{
		uow:        uow,
		Publisher:  eventPublisher,
		Metrics:    contractMetrics,
		Logger:     logger,
		PendingTTL: pendingTTL,
	}
}

// recentAuditLimit - сколько последних записей журнала отдается в карточке контракта
const recentAuditLimit = 10
