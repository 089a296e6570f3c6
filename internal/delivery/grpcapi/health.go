package grpcapi

import (
	"context"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName - имя сервиса в grpc.health.v1
const ServiceName = "freelink.contracts.v1.ContractService"

// HealthHandler отражает доступность базы в стандартном сервисе здоровья gRPC
type HealthHandler struct {
	server *health.Server
	uow    domain.UnitOfWork
	logger *zap.Logger
}

func NewHealthHandler(uow domain.UnitOfWork, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		server: health.NewServer(),
		uow:    uow,
		logger: logger,
	}
}

func (h *HealthHandler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Probe проверяет базу один раз и обновляет статус
func (h *HealthHandler) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.uow.Ping(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		h.logger.Warn("database health probe failed", zap.Error(err))
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run опрашивает базу до отмены контекста
func (h *HealthHandler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	h.Probe(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}
