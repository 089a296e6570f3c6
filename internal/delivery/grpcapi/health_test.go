package grpcapi

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/memstore"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type downStore struct {
	*memstore.Store
}

func (downStore) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestProbeReflectsDatabase(t *testing.T) {
	cases := []struct {
		name string
		uow  domain.UnitOfWork
		want healthpb.HealthCheckResponse_ServingStatus
	}{
		{name: "database up", uow: memstore.New(), want: healthpb.HealthCheckResponse_SERVING},
		{name: "database down", uow: downStore{memstore.New()}, want: healthpb.HealthCheckResponse_NOT_SERVING},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.uow, nil)
			if got := h.Probe(context.Background()); got != tc.want {
				t.Fatalf("probe = %v, want %v", got, tc.want)
			}
			resp, err := h.server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			if resp.Status != tc.want {
				t.Fatalf("check status = %v, want %v", resp.Status, tc.want)
			}
		})
	}
}
