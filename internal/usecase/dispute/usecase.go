package usecase

import (
	"context"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	disputedto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/dispute"
	"go.uber.org/zap"
)

type DisputeUsecase interface {
	RaiseDispute(ctx context.Context, actor domain.Actor, input *disputedto.RaiseDisputeInput) (*domain.Dispute, error)
	MarkUnderReview(ctx context.Context, actor domain.Actor, disputeID string) (*domain.Dispute, error)
	AddComment(ctx context.Context, actor domain.Actor, disputeID, content string) (*domain.DisputeComment, error)
	ResolveDispute(ctx context.Context, actor domain.Actor, input *disputedto.ResolveDisputeInput) (*domain.Dispute, error)
	GetDispute(ctx context.Context, actor domain.Actor, disputeID string) (*domain.Dispute, error)
	ListDisputes(ctx context.Context, actor domain.Actor, input *disputedto.ListDisputesInput) (*disputedto.DisputeListOutput, error)
}

type DefaultDisputeUsecase struct {
	uow       domain.UnitOfWork
	Publisher domain.EventPublisher
	Metrics   *metrics.ContractMetrics
	Logger    *zap.Logger
}

func NewDefaultDisputeUsecase(uow domain.UnitOfWork, publisher domain.EventPublisher, contractMetrics *metrics.ContractMetrics, logger *zap.Logger) *DefaultDisputeUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultDisputeUsecase{
		uow:       uow,
		Publisher: publisher,
		Metrics:   contractMetrics,
		Logger:    logger,
	}
}
