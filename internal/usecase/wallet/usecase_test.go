package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/memstore"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	walletdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var freelancer = domain.Actor{UserID: "freelancer-1", Roles: []domain.Role{domain.RoleFreelancer}}

type fakeGateway struct {
	mu        sync.Mutex
	transfers []domain.TransferRequest
	err       error
}

func (g *fakeGateway) InitializeCharge(context.Context, domain.ChargeRequest) (*domain.ChargeSession, error) {
	return nil, errors.New("not used")
}

func (g *fakeGateway) VerifyCharge(context.Context, string) (*domain.GatewayEvent, error) {
	return nil, errors.New("not used")
}

func (g *fakeGateway) InitiateTransfer(_ context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	// запрос дошел до шлюза, даже если ответ потерян
	g.transfers = append(g.transfers, req)
	if g.err != nil {
		return nil, g.err
	}
	return &domain.TransferResult{Reference: req.Reference, TransferCode: "TRF_1", Status: "pending"}, nil
}

func newTestUsecase(t *testing.T) (*DefaultWalletUsecase, *memstore.Store, *fakeGateway, *metrics.ContractMetrics) {
	t.Helper()
	store := memstore.New()
	gateway := &fakeGateway{}
	m := metrics.NewContractMetrics(prometheus.NewRegistry())
	uc := NewDefaultWalletUsecase(store, gateway, m, nil)

	if err := store.Repositories().Wallets.Credit(context.Background(), freelancer.UserID, "GHS", 1000); err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
	return uc, store, gateway, m
}

func wallet(t *testing.T, store *memstore.Store) *domain.Wallet {
	t.Helper()
	w, err := store.Repositories().Wallets.GetWallet(context.Background(), freelancer.UserID, "GHS")
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	return w
}

func withdraw(t *testing.T, uc *DefaultWalletUsecase, amount int64) *domain.Withdrawal {
	t.Helper()
	w, err := uc.RequestWithdrawal(context.Background(), freelancer, &walletdto.WithdrawalInput{
		Amount:        amount,
		Currency:      "ghs",
		RecipientCode: "RCP_1",
	})
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	return w
}

func TestGetWalletRequiresPartyRole(t *testing.T) {
	uc, _, _, _ := newTestUsecase(t)
	ctx := context.Background()

	wallets, err := uc.GetWallet(ctx, freelancer)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if len(wallets) != 1 || wallets[0].Balance != 1000 {
		t.Fatalf("unexpected wallets: %+v", wallets)
	}

	staff := domain.Actor{UserID: "staff-1", Roles: []domain.Role{domain.RoleStaff}}
	if _, err := uc.GetWallet(ctx, staff); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("staff has no wallet, got %v", err)
	}
	if _, err := uc.GetWallet(ctx, domain.Actor{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous must be rejected, got %v", err)
	}
}

func TestWithdrawalReservesThenSettles(t *testing.T) {
	uc, store, gateway, m := newTestUsecase(t)
	ctx := context.Background()

	w := withdraw(t, uc, 600)
	if w.Status != domain.WithdrawalProcessing || w.TransferCode != "TRF_1" || w.Currency != "GHS" {
		t.Fatalf("unexpected withdrawal: %+v", w)
	}
	if len(gateway.transfers) != 1 || gateway.transfers[0].Amount != 600 {
		t.Fatalf("unexpected transfers: %+v", gateway.transfers)
	}
	if got := wallet(t, store); got.Balance != 1000 || got.Available != 400 {
		t.Fatalf("amount must be reserved: %+v", got)
	}

	event := &domain.GatewayEvent{Type: domain.TransferSuccess, Reference: w.Reference, TransferCode: "TRF_1"}
	if err := uc.SettleTransfer(ctx, event); err != nil {
		t.Fatalf("settle: %v", err)
	}
	// повтор не списывает второй раз
	if err := uc.SettleTransfer(ctx, event); err != nil {
		t.Fatalf("settle replay: %v", err)
	}
	if got := wallet(t, store); got.Balance != 400 || got.Available != 400 {
		t.Fatalf("unexpected wallet after settlement: %+v", got)
	}
	if got := testutil.ToFloat64(m.WithdrawalsTotal.WithLabelValues("duplicate")); got != 1 {
		t.Fatalf("duplicate withdrawals metric = %v", got)
	}

	out, err := uc.ListWalletTransactions(ctx, freelancer, 1, 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if out.Total != 1 || out.Transactions[0].Status != domain.WalletTxCompleted || out.Transactions[0].Amount != -600 {
		t.Fatalf("unexpected transactions: %+v", out.Transactions)
	}
}

func TestWithdrawalValidation(t *testing.T) {
	uc, store, gateway, _ := newTestUsecase(t)
	ctx := context.Background()

	_, err := uc.RequestWithdrawal(ctx, freelancer, &walletdto.WithdrawalInput{Amount: 0, Currency: "XYZ"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"amount", "currency", "recipient_code"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("missing %s error: %+v", field, verr.Fields)
		}
	}

	_, err = uc.RequestWithdrawal(ctx, freelancer, &walletdto.WithdrawalInput{Amount: 5000, Currency: "GHS", RecipientCode: "RCP_1"})
	if !errors.As(err, &verr) || len(verr.Fields["amount"]) == 0 {
		t.Fatalf("overdraw must be a validation error on amount, got %v", err)
	}
	if len(gateway.transfers) != 0 {
		t.Fatal("gateway must not be called for invalid withdrawals")
	}
	if got := wallet(t, store); got.Available != 1000 {
		t.Fatalf("nothing must be reserved: %+v", got)
	}
}

func TestWithdrawalGatewayFailureReleasesReservation(t *testing.T) {
	uc, store, gateway, _ := newTestUsecase(t)
	gateway.err = &domain.PaymentError{Op: "transfer", Message: "recipient rejected"}

	_, err := uc.RequestWithdrawal(context.Background(), freelancer, &walletdto.WithdrawalInput{
		Amount: 300, Currency: "GHS", RecipientCode: "RCP_1",
	})
	var perr *domain.PaymentError
	if !errors.As(err, &perr) {
		t.Fatalf("expected payment error, got %v", err)
	}
	if got := wallet(t, store); got.Balance != 1000 || got.Available != 1000 {
		t.Fatalf("reservation must be released: %+v", got)
	}

	out, _ := uc.ListWalletTransactions(context.Background(), freelancer, 1, 10)
	if out.Total != 1 || out.Transactions[0].Status != domain.WalletTxFailed {
		t.Fatalf("withdrawal transaction must be failed: %+v", out.Transactions)
	}
}

func TestTransferFailedAndReversed(t *testing.T) {
	uc, store, _, _ := newTestUsecase(t)
	ctx := context.Background()

	failed := withdraw(t, uc, 200)
	if err := uc.SettleTransfer(ctx, &domain.GatewayEvent{Type: domain.TransferFailed, Reference: failed.Reference}); err != nil {
		t.Fatalf("settle failed transfer: %v", err)
	}
	if got := wallet(t, store); got.Balance != 1000 || got.Available != 1000 {
		t.Fatalf("failed transfer must release the reservation: %+v", got)
	}

	reversed := withdraw(t, uc, 500)
	if err := uc.SettleTransfer(ctx, &domain.GatewayEvent{Type: domain.TransferSuccess, Reference: reversed.Reference}); err != nil {
		t.Fatalf("settle success: %v", err)
	}
	if got := wallet(t, store); got.Balance != 500 {
		t.Fatalf("unexpected balance after success: %+v", got)
	}
	if err := uc.SettleTransfer(ctx, &domain.GatewayEvent{Type: domain.TransferReversed, Reference: reversed.Reference}); err != nil {
		t.Fatalf("settle reversal: %v", err)
	}
	if got := wallet(t, store); got.Balance != 1000 || got.Available != 1000 {
		t.Fatalf("reversal must return the funds: %+v", got)
	}
}

func TestSettleUnknownTransfer(t *testing.T) {
	uc, _, _, _ := newTestUsecase(t)
	err := uc.SettleTransfer(context.Background(), &domain.GatewayEvent{Type: domain.TransferSuccess, Reference: "wd_missing"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWithdrawalUnknownOutcomeKeepsReservation(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"timeout", &domain.PaymentError{Op: "transfer", Message: "gateway unreachable", Err: context.DeadlineExceeded}},
		{"gateway 5xx", &domain.PaymentError{Op: "transfer", Message: "Bad Gateway", StatusCode: 502}},
		{"unwrapped error", fmt.Errorf("transport: %w", context.Canceled)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store, gateway, m := newTestUsecase(t)
			ctx := context.Background()
			gateway.err = tt.err

			w, err := uc.RequestWithdrawal(ctx, freelancer, &walletdto.WithdrawalInput{
				Amount: 600, Currency: "GHS", RecipientCode: "RCP_1",
			})
			if err != nil {
				t.Fatalf("unknown transfer outcome must not fail the request: %v", err)
			}
			if w.Status != domain.WithdrawalPending {
				t.Fatalf("withdrawal must stay pending, got %s", w.Status)
			}
			if got := wallet(t, store); got.Balance != 1000 || got.Available != 400 {
				t.Fatalf("reservation must be kept: %+v", got)
			}
			if got := testutil.ToFloat64(m.WithdrawalsTotal.WithLabelValues("unknown")); got != 1 {
				t.Fatalf("unknown withdrawals metric = %v", got)
			}

			// перевод на самом деле прошел
			event := &domain.GatewayEvent{Type: domain.TransferSuccess, Reference: w.Reference, TransferCode: "TRF_9"}
			if err := uc.SettleTransfer(ctx, event); err != nil {
				t.Fatalf("settle: %v", err)
			}
			if got := wallet(t, store); got.Balance != 400 || got.Available != 400 {
				t.Fatalf("paid out amount must be debited: %+v", got)
			}
		})
	}
}

func TestTransferSuccessAfterRejectionDebits(t *testing.T) {
	uc, store, gateway, m := newTestUsecase(t)
	ctx := context.Background()
	gateway.err = &domain.PaymentError{Op: "transfer", Message: "recipient rejected", StatusCode: 400}

	if _, err := uc.RequestWithdrawal(ctx, freelancer, &walletdto.WithdrawalInput{
		Amount: 300, Currency: "GHS", RecipientCode: "RCP_1",
	}); err == nil {
		t.Fatal("explicit rejection must be reported")
	}
	if len(gateway.transfers) != 1 {
		t.Fatalf("unexpected transfers: %+v", gateway.transfers)
	}
	reference := gateway.transfers[0].Reference

	if err := uc.SettleTransfer(ctx, &domain.GatewayEvent{Type: domain.TransferSuccess, Reference: reference}); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if got := wallet(t, store); got.Balance != 700 || got.Available != 700 {
		t.Fatalf("late success must debit the wallet: %+v", got)
	}
	if got := testutil.ToFloat64(m.WithdrawalsTotal.WithLabelValues("late_success")); got != 1 {
		t.Fatalf("late success metric = %v", got)
	}

	out, _ := uc.ListWalletTransactions(ctx, freelancer, 1, 10)
	if out.Total != 1 || out.Transactions[0].Status != domain.WalletTxCompleted {
		t.Fatalf("withdrawal transaction must be completed: %+v", out.Transactions)
	}
}
