package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/memstore"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	contractUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/contract"
	contractdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/contract"
	escrowdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/escrow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var (
	client     = domain.Actor{UserID: "client-1", Email: "client@example.com", Roles: []domain.Role{domain.RoleClient}}
	freelancer = domain.Actor{UserID: "freelancer-1", Email: "dev@example.com", Roles: []domain.Role{domain.RoleFreelancer}}
)

type fakeGateway struct {
	mu        sync.Mutex
	charges   map[string]domain.ChargeRequest
	initCalls int
	initErr   error
	verify    map[string]*domain.GatewayEvent
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		charges: make(map[string]domain.ChargeRequest),
		verify:  make(map[string]*domain.GatewayEvent),
	}
}

func (g *fakeGateway) InitializeCharge(_ context.Context, req domain.ChargeRequest) (*domain.ChargeSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	g.charges[req.Reference] = req
	return &domain.ChargeSession{
		Reference:        req.Reference,
		AuthorizationURL: "https://checkout.example/" + req.Reference,
	}, nil
}

func (g *fakeGateway) VerifyCharge(_ context.Context, reference string) (*domain.GatewayEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if event, ok := g.verify[reference]; ok {
		return event, nil
	}
	return &domain.GatewayEvent{Type: domain.ChargePending, Reference: reference}, nil
}

func (g *fakeGateway) InitiateTransfer(context.Context, domain.TransferRequest) (*domain.TransferResult, error) {
	return nil, errors.New("not used")
}

type memoryDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memoryDeduper) AcquireOnce(_ context.Context, scope, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[scope+key] {
		return false
	}
	d.seen[scope+key] = true
	return true
}

func (d *memoryDeduper) Forget(_ context.Context, scope, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, scope+key)
}

type recordingSettler struct {
	events []*domain.GatewayEvent
}

func (s *recordingSettler) SettleTransfer(_ context.Context, event *domain.GatewayEvent) error {
	s.events = append(s.events, event)
	return nil
}

type fixture struct {
	store     *memstore.Store
	gateway   *fakeGateway
	settler   *recordingSettler
	metrics   *metrics.ContractMetrics
	contracts *contractUsecase.DefaultContractUsecase
	uc        *DefaultEscrowUsecase
}

func newFixture(t *testing.T, deduper Deduper) *fixture {
	t.Helper()
	store := memstore.New()
	store.PutJob(domain.Job{
		ID:           "job-1",
		ClientID:     client.UserID,
		FreelancerID: freelancer.UserID,
		Budget:       2000,
		Currency:     "GHS",
		Status:       domain.JobInProgress,
	})
	m := metrics.NewContractMetrics(prometheus.NewRegistry())
	gateway := newFakeGateway()
	settler := &recordingSettler{}
	return &fixture{
		store:     store,
		gateway:   gateway,
		settler:   settler,
		metrics:   m,
		contracts: contractUsecase.NewDefaultContractUsecase(store, nil, m, nil, time.Hour),
		uc:        NewDefaultEscrowUsecase(store, gateway, deduper, settler, nil, m, nil, "https://app.example/callback", 10),
	}
}

// acceptedContract - контракт на 2000 с четырьмя вехами по 500, принятый фрилансером
func (f *fixture) acceptedContract(t *testing.T) *domain.Contract {
	t.Helper()
	ctx := context.Background()
	c, err := f.contracts.CreateContract(ctx, client, &contractdto.CreateContractInput{
		JobID:        "job-1",
		FreelancerID: freelancer.UserID,
		AgreedBid:    2000,
		Currency:     "GHS",
		Milestones: []contractdto.MilestoneInput{
			{Title: "Design", Amount: 500},
			{Title: "Build", Amount: 500},
			{Title: "Test", Amount: 500},
			{Title: "Launch", Amount: 500},
		},
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if _, err := f.contracts.AcceptContract(ctx, freelancer, c.ID); err != nil {
		t.Fatalf("accept contract: %v", err)
	}
	return c
}

func (f *fixture) contract(t *testing.T, id string) *domain.Contract {
	t.Helper()
	c, err := f.store.Repositories().Contracts.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	return c
}

func success(tx *domain.EscrowTransaction) *domain.GatewayEvent {
	return &domain.GatewayEvent{
		Type:      domain.ChargeSuccess,
		Reference: tx.Reference,
		Amount:    tx.Amount,
		Currency:  tx.Currency,
	}
}

func TestFullLifecycleScenario(t *testing.T) {
	f := newFixture(t, &memoryDeduper{})
	ctx := context.Background()
	c := f.acceptedContract(t)

	out, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if out.Transaction.Status != domain.EscrowTxInitiated || out.Transaction.AuthorizationURL == "" {
		t.Fatalf("unexpected deposit: %+v", out.Transaction)
	}
	if f.contract(t, c.ID).Status != domain.ContractAccepted {
		t.Fatal("initiated deposit must not start work")
	}

	if err := f.uc.ReconcileGatewayEvent(ctx, success(out.Transaction)); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	funded := f.contract(t, c.ID)
	if funded.Status != domain.ContractInProgress || funded.EscrowStatus != domain.EscrowFunded {
		t.Fatalf("unexpected funded contract: %s/%s", funded.Status, funded.EscrowStatus)
	}

	if _, err := f.contracts.SubmitWork(ctx, freelancer, c.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	milestones, _ := f.contracts.ListMilestones(ctx, client, c.ID)
	for _, m := range milestones {
		if m.Status != domain.MilestoneFunded {
			t.Fatalf("milestone %d must be funded, got %s", m.Position, m.Status)
		}
		if _, err := f.contracts.ReleaseMilestone(ctx, client, c.ID, m.ID); err != nil {
			t.Fatalf("release %d: %v", m.Position, err)
		}
	}

	final := f.contract(t, c.ID)
	if final.Status != domain.ContractCompleted || final.EscrowReleased != 2000 {
		t.Fatalf("unexpected final contract: %s released=%d", final.Status, final.EscrowReleased)
	}
	wallet, _ := f.store.Repositories().Wallets.GetWallet(ctx, freelancer.UserID, "GHS")
	if wallet == nil || wallet.Balance != 2000 || wallet.Available != 2000 {
		t.Fatalf("unexpected freelancer wallet: %+v", wallet)
	}

	txs, _ := f.uc.ListEscrowTransactions(ctx, freelancer, c.ID)
	if len(txs) != 5 {
		t.Fatalf("expected 1 deposit and 4 releases, got %d", len(txs))
	}
}

func TestDepositGatewayFailureLeavesNoState(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)
	f.gateway.initErr = &domain.PaymentError{Op: "initialize", Message: "gateway down"}

	_, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000, IdempotencyKey: "k1"})
	var paymentErr *domain.PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentError, got %v", err)
	}

	txs, _ := f.uc.ListEscrowTransactions(ctx, client, c.ID)
	if len(txs) != 0 {
		t.Fatalf("failed gateway call must not store transactions, got %d", len(txs))
	}
	after := f.contract(t, c.ID)
	if after.Status != domain.ContractAccepted || after.EscrowFunded != 0 || after.Version != c.Version+1 {
		t.Fatalf("contract changed after gateway failure: %+v", after)
	}
	if got := testutil.ToFloat64(f.metrics.EscrowDepositsTotal.WithLabelValues("gateway_error")); got != 1 {
		t.Fatalf("gateway error metric = %v", got)
	}

	// повтор с тем же ключом после восстановления шлюза проходит
	f.gateway.initErr = nil
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000, IdempotencyKey: "k1"}); err != nil {
		t.Fatalf("retry after gateway recovery: %v", err)
	}
}

func TestDepositIdempotencyKey(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)

	first, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 800, IdempotencyKey: "same"})
	if err != nil {
		t.Fatalf("first deposit: %v", err)
	}
	second, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 800, IdempotencyKey: "same"})
	if err != nil {
		t.Fatalf("replayed deposit: %v", err)
	}
	if !second.Replayed || second.Transaction.Reference != first.Transaction.Reference {
		t.Fatalf("replay must return the original transaction: %+v", second)
	}
	if f.gateway.initCalls != 1 {
		t.Fatalf("gateway called %d times", f.gateway.initCalls)
	}
}

func TestDepositGates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)

	if _, err := f.uc.DepositEscrow(ctx, freelancer, &escrowdto.DepositInput{ContractID: c.ID, Amount: 100}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("freelancer deposit must be denied, got %v", err)
	}

	var verr *domain.ValidationError
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2001}); !errors.As(err, &verr) || len(verr.Fields["amount"]) == 0 {
		t.Fatalf("over-funding must fail validation, got %v", err)
	}
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 0}); !errors.As(err, &verr) {
		t.Fatalf("zero amount must fail validation, got %v", err)
	}
	noEmail := client
	noEmail.Email = ""
	if _, err := f.uc.DepositEscrow(ctx, noEmail, &escrowdto.DepositInput{ContractID: c.ID, Amount: 100}); !errors.As(err, &verr) || len(verr.Fields[domain.NonFieldErrors]) == 0 {
		t.Fatalf("missing email must fail validation, got %v", err)
	}

	// диспут замораживает депозиты
	err := f.store.Do(ctx, func(repos *domain.Repositories) error {
		current, err := repos.Contracts.GetForUpdate(ctx, c.ID)
		if err != nil {
			return err
		}
		current.Status = domain.ContractDisputed
		return repos.Contracts.Update(ctx, current, domain.ContractAccepted)
	})
	if err != nil {
		t.Fatalf("mark disputed: %v", err)
	}
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 100}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("deposit while disputed must be invalid state, got %v", err)
	}
	if f.gateway.initCalls != 0 {
		t.Fatalf("gateway must not be called for rejected deposits, got %d", f.gateway.initCalls)
	}
}

func TestDuplicateConfirmationNeverDoubleCredits(t *testing.T) {
	for name, deduper := range map[string]Deduper{"with dedup": &memoryDeduper{}, "db guard only": nil} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, deduper)
			ctx := context.Background()
			c := f.acceptedContract(t)

			out, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 1200})
			if err != nil {
				t.Fatalf("deposit: %v", err)
			}
			for i := 0; i < 3; i++ {
				if err := f.uc.ReconcileGatewayEvent(ctx, success(out.Transaction)); err != nil {
					t.Fatalf("reconcile %d: %v", i, err)
				}
			}

			after := f.contract(t, c.ID)
			if after.EscrowFunded != 1200 || after.Status != domain.ContractAccepted || after.EscrowStatus != domain.EscrowPartiallyFunded {
				t.Fatalf("unexpected contract after replays: funded=%d status=%s", after.EscrowFunded, after.Status)
			}
			if got := testutil.ToFloat64(f.metrics.WebhookEventsTotal.WithLabelValues("charge.success", "duplicate")); got != 2 {
				t.Fatalf("duplicate metric = %v", got)
			}
		})
	}
}

func TestPartialDepositsThenFull(t *testing.T) {
	f := newFixture(t, &memoryDeduper{})
	ctx := context.Background()
	c := f.acceptedContract(t)

	first, _ := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 1200})
	_ = f.uc.ReconcileGatewayEvent(ctx, success(first.Transaction))

	milestones, _ := f.contracts.ListMilestones(ctx, client, c.ID)
	if milestones[0].Status != domain.MilestoneFunded || milestones[1].Status != domain.MilestoneFunded || milestones[2].Status != domain.MilestonePending {
		t.Fatalf("milestones must be funded in order while covered: %s %s %s", milestones[0].Status, milestones[1].Status, milestones[2].Status)
	}

	var verr *domain.ValidationError
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 900}); !errors.As(err, &verr) {
		t.Fatalf("deposit over remaining must fail, got %v", err)
	}
	second, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 800})
	if err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	_ = f.uc.ReconcileGatewayEvent(ctx, success(second.Transaction))
	if got := f.contract(t, c.ID); got.Status != domain.ContractInProgress || !got.FullyFunded() {
		t.Fatalf("contract must be in progress after full funding, got %s", got.Status)
	}
}

func TestAmountMismatchFailsDeposit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)
	out, _ := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000})

	event := success(out.Transaction)
	event.Amount = 200
	if err := f.uc.ReconcileGatewayEvent(ctx, event); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	tx, _ := f.store.Repositories().Escrow.GetByReference(ctx, out.Transaction.Reference)
	if tx.Status != domain.EscrowTxFailed || tx.FailureReason == "" {
		t.Fatalf("mismatched deposit must fail: %+v", tx)
	}
	if got := f.contract(t, c.ID); got.EscrowFunded != 0 {
		t.Fatalf("mismatch must not credit escrow, funded=%d", got.EscrowFunded)
	}
}

func TestChargeFailed(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)
	out, _ := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000})

	err := f.uc.ReconcileGatewayEvent(ctx, &domain.GatewayEvent{Type: domain.ChargeFailed, Reference: out.Transaction.Reference, Message: "Declined"})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	tx, _ := f.store.Repositories().Escrow.GetByReference(ctx, out.Transaction.Reference)
	if tx.Status != domain.EscrowTxFailed || tx.FailureReason != "Declined" {
		t.Fatalf("unexpected failed tx: %+v", tx)
	}

	// успех после отказа уже не зачисляется
	_ = f.uc.ReconcileGatewayEvent(ctx, success(out.Transaction))
	if got := f.contract(t, c.ID); got.EscrowFunded != 0 {
		t.Fatalf("failed deposit credited later: %d", got.EscrowFunded)
	}
}

func TestLateDepositOnCancelledContractIsRefunded(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)
	out, _ := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000})

	if _, err := f.contracts.CancelContract(ctx, client, c.ID, "found someone else"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.uc.ReconcileGatewayEvent(ctx, success(out.Transaction)); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	after := f.contract(t, c.ID)
	if after.Status != domain.ContractCancelled || after.EscrowBalance() != 0 || after.EscrowRefunded != 2000 {
		t.Fatalf("late deposit must be refunded: %+v", after)
	}
	wallet, _ := f.store.Repositories().Wallets.GetWallet(ctx, client.UserID, "GHS")
	if wallet == nil || wallet.Balance != 2000 {
		t.Fatalf("client wallet = %+v", wallet)
	}
}

func TestUnknownReferenceIsIgnored(t *testing.T) {
	f := newFixture(t, &memoryDeduper{})
	err := f.uc.ReconcileGatewayEvent(context.Background(), &domain.GatewayEvent{Type: domain.ChargeSuccess, Reference: "nope", Amount: 1})
	if err != nil {
		t.Fatalf("unknown reference must be ignored, got %v", err)
	}
	if err := f.uc.ReconcileGatewayEvent(context.Background(), &domain.GatewayEvent{Type: domain.ChargePending, Reference: "nope"}); err != nil {
		t.Fatalf("pending event must be ignored, got %v", err)
	}
}

func TestTransferEventsAreForwarded(t *testing.T) {
	f := newFixture(t, nil)
	event := &domain.GatewayEvent{Type: domain.TransferSuccess, Reference: "wd_1"}
	if err := f.uc.ReconcileGatewayEvent(context.Background(), event); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(f.settler.events) != 1 || f.settler.events[0] != event {
		t.Fatalf("transfer event not forwarded: %+v", f.settler.events)
	}
}

func TestVerifyDeposit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)
	out, _ := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000})

	tx, err := f.uc.VerifyDeposit(ctx, client, out.Transaction.Reference)
	if err != nil || tx.Status != domain.EscrowTxInitiated {
		t.Fatalf("pending verify: tx=%+v err=%v", tx, err)
	}

	f.gateway.verify[out.Transaction.Reference] = success(out.Transaction)
	tx, err = f.uc.VerifyDeposit(ctx, client, out.Transaction.Reference)
	if err != nil || tx.Status != domain.EscrowTxConfirmed {
		t.Fatalf("verify: tx=%+v err=%v", tx, err)
	}
	if got := f.contract(t, c.ID); got.Status != domain.ContractInProgress {
		t.Fatalf("verified deposit must start work, got %s", got.Status)
	}

	stranger := domain.Actor{UserID: "stranger", Roles: []domain.Role{domain.RoleClient}}
	if _, err := f.uc.VerifyDeposit(ctx, stranger, out.Transaction.Reference); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("stranger verify must be denied, got %v", err)
	}
}

func TestReconcileStaleDeposits(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)
	first, _ := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 1500})
	second, _ := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 500})
	f.gateway.verify[first.Transaction.Reference] = success(first.Transaction)

	checked, err := f.uc.ReconcileStaleDeposits(ctx, -time.Minute)
	if err != nil || checked != 2 {
		t.Fatalf("sweep: checked=%d err=%v", checked, err)
	}
	repos := f.store.Repositories()
	tx1, _ := repos.Escrow.GetByReference(ctx, first.Transaction.Reference)
	tx2, _ := repos.Escrow.GetByReference(ctx, second.Transaction.Reference)
	if tx1.Status != domain.EscrowTxConfirmed || tx2.Status != domain.EscrowTxInitiated {
		t.Fatalf("unexpected statuses after sweep: %s %s", tx1.Status, tx2.Status)
	}
}

func TestPendingDepositsReduceRemaining(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)

	first, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 1500, IdempotencyKey: "tab-1"})
	if err != nil {
		t.Fatalf("first deposit: %v", err)
	}

	var verr *domain.ValidationError
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000, IdempotencyKey: "tab-2"}); !errors.As(err, &verr) || len(verr.Fields["amount"]) == 0 {
		t.Fatalf("second full deposit must be rejected, got %v", err)
	}
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 500, IdempotencyKey: "tab-2"}); err != nil {
		t.Fatalf("deposit of the uncovered rest: %v", err)
	}
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 100, IdempotencyKey: "tab-3"}); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("pending deposits cover the balance, got %v", err)
	}
	if f.gateway.initCalls != 2 {
		t.Fatalf("gateway must be called only for accepted deposits, got %d", f.gateway.initCalls)
	}

	// отклоненная сессия освобождает остаток
	failed := &domain.GatewayEvent{Type: domain.ChargeFailed, Reference: first.Transaction.Reference}
	if err := f.uc.ReconcileGatewayEvent(ctx, failed); err != nil {
		t.Fatalf("reconcile failure: %v", err)
	}
	if _, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 1500, IdempotencyKey: "tab-4"}); err != nil {
		t.Fatalf("deposit after failed session: %v", err)
	}
}

func TestConfirmedOverfundingIsRefunded(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	c := f.acceptedContract(t)

	out, err := f.uc.DepositEscrow(ctx, client, &escrowdto.DepositInput{ContractID: c.ID, Amount: 2000})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	// сессия, открытая параллельно до того, как первая была сохранена
	raced := &domain.EscrowTransaction{
		ID:         "race-1",
		ContractID: c.ID,
		Kind:       domain.EscrowDeposit,
		Amount:     500,
		Currency:   "GHS",
		Reference:  "esc_race",
		Status:     domain.EscrowTxInitiated,
	}
	if err := f.store.Do(ctx, func(repos *domain.Repositories) error { return repos.Escrow.Create(ctx, raced) }); err != nil {
		t.Fatalf("store raced deposit: %v", err)
	}

	for _, tx := range []*domain.EscrowTransaction{out.Transaction, raced} {
		if err := f.uc.ReconcileGatewayEvent(ctx, success(tx)); err != nil {
			t.Fatalf("reconcile %s: %v", tx.Reference, err)
		}
	}

	after := f.contract(t, c.ID)
	if after.EscrowFunded != 2500 || after.EscrowRefunded != 500 || after.EscrowBalance() != 2000 {
		t.Fatalf("excess must be refunded: funded=%d refunded=%d", after.EscrowFunded, after.EscrowRefunded)
	}
	if after.Status != domain.ContractInProgress || after.EscrowStatus != domain.EscrowFunded {
		t.Fatalf("unexpected contract state: %s/%s", after.Status, after.EscrowStatus)
	}
	wallet, _ := f.store.Repositories().Wallets.GetWallet(ctx, client.UserID, "GHS")
	if wallet == nil || wallet.Balance != 500 || wallet.Available != 500 {
		t.Fatalf("client wallet = %+v", wallet)
	}
}
