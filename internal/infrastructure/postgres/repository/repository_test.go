package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB - файловая sqlite со схемой из тех же моделей, что и в postgres
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "contracts.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := postgres.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newContract(id string) *domain.Contract {
	return &domain.Contract{
		ID:           id,
		JobID:        "job-" + id,
		ClientID:     "client",
		FreelancerID: "freelancer",
		AgreedBid:    2000,
		Currency:     "GHS",
		Terms:        `{}`,
		Status:       domain.ContractPending,
		EscrowStatus: domain.EscrowNotFunded,
	}
}

func TestContractUpdateIsStatusAndVersionGuarded(t *testing.T) {
	ctx := context.Background()
	repo := NewDefaultContractRepository(newTestDB(t))

	if err := repo.Create(ctx, newContract("c1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := repo.GetForUpdate(ctx, "c1")
	if err != nil {
		t.Fatalf("get for update: %v", err)
	}
	second, _ := repo.GetByID(ctx, "c1")

	first.Status = domain.ContractAccepted
	if err := repo.Update(ctx, first, domain.ContractPending); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Version != 2 {
		t.Fatalf("version must be bumped, got %d", first.Version)
	}

	// статус уже не pending
	second.Status = domain.ContractRejected
	if err := repo.Update(ctx, second, domain.ContractPending); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("stale status must give ErrInvalidState, got %v", err)
	}

	// статус совпадает, но версия устарела
	stale, _ := repo.GetByID(ctx, "c1")
	stale.Version = 1
	stale.EscrowFunded = 500
	if err := repo.Update(ctx, stale, domain.ContractAccepted); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("stale version must give ErrInvalidState, got %v", err)
	}

	got, err := repo.GetByID(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.ContractAccepted || got.Version != 2 || got.EscrowFunded != 0 {
		t.Fatalf("unexpected contract: status=%s version=%d funded=%d", got.Status, got.Version, got.EscrowFunded)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWalletCreditReserveDebit(t *testing.T) {
	ctx := context.Background()
	wallets := NewDefaultWalletRepository(newTestDB(t))

	if err := wallets.Reserve(ctx, "u1", "GHS", 1); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("reserve on missing wallet must fail, got %v", err)
	}

	// второй Credit идет через ON CONFLICT и складывает суммы
	if err := wallets.Credit(ctx, "u1", "GHS", 1000); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := wallets.Credit(ctx, "u1", "GHS", 500); err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if err := wallets.Credit(ctx, "u1", "USD", 70); err != nil {
		t.Fatalf("credit usd: %v", err)
	}

	if err := wallets.Reserve(ctx, "u1", "GHS", 1200); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := wallets.Reserve(ctx, "u1", "GHS", 400); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("over-reserve must fail, got %v", err)
	}
	if err := wallets.DebitReserved(ctx, "u1", "GHS", 1000); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := wallets.ReleaseReservation(ctx, "u1", "GHS", 200); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := wallets.DebitReserved(ctx, "u1", "GHS", 5000); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("debit beyond balance must fail, got %v", err)
	}

	w, err := wallets.GetWallet(ctx, "u1", "GHS")
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if w.Balance != 500 || w.Available != 500 {
		t.Fatalf("unexpected wallet: balance=%d available=%d", w.Balance, w.Available)
	}

	all, err := wallets.ListWallets(ctx, "u1")
	if err != nil {
		t.Fatalf("list wallets: %v", err)
	}
	if len(all) != 2 || all[0].Currency != "GHS" || all[1].Balance != 70 {
		t.Fatalf("unexpected wallets: %+v", all)
	}
}

func TestEscrowStatusUpdateIsGuarded(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	if err := NewDefaultContractRepository(db).Create(ctx, newContract("c1")); err != nil {
		t.Fatalf("create contract: %v", err)
	}
	escrow := NewDefaultEscrowRepository(db)

	tx := &domain.EscrowTransaction{
		ID:             "tx1",
		ContractID:     "c1",
		Kind:           domain.EscrowDeposit,
		Amount:         2000,
		Currency:       "GHS",
		Reference:      "dep_1",
		IdempotencyKey: "key-1",
		Status:         domain.EscrowTxInitiated,
	}
	if err := escrow.Create(ctx, tx); err != nil {
		t.Fatalf("create escrow tx: %v", err)
	}

	dup := *tx
	dup.ID, dup.Reference = "tx2", "dep_2"
	if err := escrow.Create(ctx, &dup); err == nil {
		t.Fatal("idempotency key must be unique per contract")
	}

	locked, err := escrow.GetByReferenceForUpdate(ctx, "dep_1")
	if err != nil {
		t.Fatalf("get for update: %v", err)
	}
	if err := escrow.UpdateStatus(ctx, locked.ID, domain.EscrowTxInitiated, domain.EscrowTxConfirmed, "", nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := escrow.UpdateStatus(ctx, locked.ID, domain.EscrowTxInitiated, domain.EscrowTxConfirmed, "", nil); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("second confirmation must give ErrInvalidState, got %v", err)
	}

	byKey, err := escrow.GetByIdempotencyKey(ctx, "c1", "key-1")
	if err != nil || byKey.Status != domain.EscrowTxConfirmed {
		t.Fatalf("unexpected transaction by key: %+v err=%v", byKey, err)
	}
}

func TestUnitOfWorkRollsBack(t *testing.T) {
	ctx := context.Background()
	uow := NewGormUnitOfWork(newTestDB(t))
	boom := errors.New("boom")

	err := uow.Do(ctx, func(repos *domain.Repositories) error {
		if err := repos.Contracts.Create(ctx, newContract("c1")); err != nil {
			return err
		}
		if err := repos.Wallets.Credit(ctx, "client", "GHS", 500); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}

	repos := uow.Repositories()
	if _, err := repos.Contracts.GetByID(ctx, "c1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("contract must be rolled back, got %v", err)
	}
	if _, err := repos.Wallets.GetWallet(ctx, "client", "GHS"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("wallet must be rolled back, got %v", err)
	}
	if err := uow.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
