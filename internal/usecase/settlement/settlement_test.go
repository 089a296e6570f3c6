package settlement

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/memstore"
)

func seed(t *testing.T, amounts ...int64) (*memstore.Store, *domain.Contract) {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	c := &domain.Contract{
		ID:           "c1",
		JobID:        "j1",
		ClientID:     "client",
		FreelancerID: "freelancer",
		Currency:     "GHS",
		Status:       domain.ContractAccepted,
		EscrowStatus: domain.EscrowNotFunded,
	}
	var milestones []*domain.Milestone
	for i, a := range amounts {
		c.AgreedBid += a
		milestones = append(milestones, &domain.Milestone{
			ID:         NewID(),
			ContractID: c.ID,
			Title:      "m",
			Amount:     a,
			Position:   i + 1,
			Status:     domain.MilestonePending,
		})
	}
	repos := store.Repositories()
	if err := repos.Contracts.Create(ctx, c); err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if err := repos.Milestones.CreateBatch(ctx, milestones); err != nil {
		t.Fatalf("create milestones: %v", err)
	}
	return store, c
}

func TestFundMilestonesInPositionOrder(t *testing.T) {
	store, c := seed(t, 300, 200, 500)
	ctx := context.Background()
	repos := store.Repositories()

	c.EscrowFunded = 550
	funded, err := FundMilestones(ctx, repos, c)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if len(funded) != 2 {
		t.Fatalf("expected 2 funded milestones, got %d", len(funded))
	}

	c.EscrowFunded = 1000
	funded, _ = FundMilestones(ctx, repos, c)
	if len(funded) != 1 || funded[0].Amount != 500 {
		t.Fatalf("expected the last milestone funded, got %+v", funded)
	}
}

func TestReleaseAndRefund(t *testing.T) {
	store, c := seed(t, 600, 400)
	ctx := context.Background()
	repos := store.Repositories()

	c.EscrowFunded = 1200
	if _, err := FundMilestones(ctx, repos, c); err != nil {
		t.Fatalf("fund: %v", err)
	}
	milestones, _ := repos.Milestones.ListByContract(ctx, c.ID)
	if err := ReleaseMilestone(ctx, repos, c, milestones[0]); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := ReleaseMilestone(ctx, repos, c, milestones[0]); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("double release must fail, got %v", err)
	}

	refunded, err := RefundEscrow(ctx, repos, c)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded != 600 || c.EscrowBalance() != 0 {
		t.Fatalf("unexpected refund %d balance %d", refunded, c.EscrowBalance())
	}

	freelancer, _ := repos.Wallets.GetWallet(ctx, "freelancer", "GHS")
	client, _ := repos.Wallets.GetWallet(ctx, "client", "GHS")
	if freelancer.Balance != 600 || client.Balance != 600 {
		t.Fatalf("unexpected wallets: freelancer=%d client=%d", freelancer.Balance, client.Balance)
	}

	milestones, _ = repos.Milestones.ListByContract(ctx, c.ID)
	if milestones[1].Status != domain.MilestoneRefunded {
		t.Fatalf("unreleased milestone must be refunded, got %s", milestones[1].Status)
	}

	txs, _ := repos.Escrow.ListByContract(ctx, c.ID)
	if len(txs) != 2 || txs[0].Kind != domain.EscrowRelease || txs[1].Kind != domain.EscrowRefund {
		t.Fatalf("unexpected escrow movements: %+v", txs)
	}
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	store, c := seed(t, 100)
	ctx := context.Background()
	repos := store.Repositories()

	if err := Transition(ctx, repos, c, domain.ContractCompleted, "client", "", nil); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("accepted -> completed must fail, got %v", err)
	}
	if err := Transition(ctx, repos, c, domain.ContractCancelled, "client", domain.AuditContractCancelled, nil); err != nil {
		t.Fatalf("accepted -> cancelled: %v", err)
	}
	entries, _ := repos.Audit.ListByContract(ctx, c.ID, 0)
	if len(entries) != 1 || entries[0].Summary != "contract cancelled by client" {
		t.Fatalf("unexpected audit: %+v", entries)
	}
}

func TestNewReference(t *testing.T) {
	a, b := NewReference("esc"), NewReference("esc")
	if a == b || !strings.HasPrefix(a, "esc_") {
		t.Fatalf("unexpected references %q %q", a, b)
	}
}
