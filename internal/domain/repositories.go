package domain

import (
	"context"
	"time"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *Contract) error
	GetByID(ctx context.Context, id string) (*Contract, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Contract, error)
	GetByJobID(ctx context.Context, jobID string) (*Contract, error)
	// Update persists the contract only if its status is still expected.
	// Returns ErrInvalidState when another writer got there first.
	Update(ctx context.Context, contract *Contract, expected ContractStatus) error
	List(ctx context.Context, filter ContractFilter) ([]*Contract, int64, error)
	FindExpiredPending(ctx context.Context, now time.Time) ([]*Contract, error)
}

type MilestoneRepository interface {
	CreateBatch(ctx context.Context, milestones []*Milestone) error
	GetByID(ctx context.Context, id string) (*Milestone, error)
	ListByContract(ctx context.Context, contractID string) ([]*Milestone, error)
	UpdateStatus(ctx context.Context, id string, from, to MilestoneStatus, at *time.Time) error
}

type EscrowRepository interface {
	Create(ctx context.Context, tx *EscrowTransaction) error
	GetByReference(ctx context.Context, reference string) (*EscrowTransaction, error)
	GetByReferenceForUpdate(ctx context.Context, reference string) (*EscrowTransaction, error)
	GetByIdempotencyKey(ctx context.Context, contractID, key string) (*EscrowTransaction, error)
	UpdateStatus(ctx context.Context, id string, from, to EscrowTxStatus, reason string, at *time.Time) error
	ListByContract(ctx context.Context, contractID string) ([]*EscrowTransaction, error)
	FindStaleDeposits(ctx context.Context, before time.Time, limit int) ([]*EscrowTransaction, error)
}

type WalletRepository interface {
	ListWallets(ctx context.Context, userID string) ([]*Wallet, error)
	GetWallet(ctx context.Context, userID, currency string) (*Wallet, error)
	// Credit adds to both balance and available, creating the wallet on first use.
	Credit(ctx context.Context, userID, currency string, amount int64) error
	// Reserve moves amount out of available. ErrInsufficientFunds when it does not fit.
	Reserve(ctx context.Context, userID, currency string, amount int64) error
	ReleaseReservation(ctx context.Context, userID, currency string, amount int64) error
	// DebitReserved removes a previously reserved amount from the balance.
	DebitReserved(ctx context.Context, userID, currency string, amount int64) error

	CreateTransaction(ctx context.Context, tx *WalletTransaction) error
	UpdateTransactionStatus(ctx context.Context, reference string, status WalletTxStatus) error
	ListTransactions(ctx context.Context, userID string, page, limit int) ([]*WalletTransaction, int64, error)

	CreateWithdrawal(ctx context.Context, w *Withdrawal) error
	GetWithdrawalForUpdate(ctx context.Context, reference string) (*Withdrawal, error)
	UpdateWithdrawal(ctx context.Context, w *Withdrawal) error
}

type DisputeRepository interface {
	Create(ctx context.Context, dispute *Dispute) error
	GetByID(ctx context.Context, id string) (*Dispute, error)
	FindActiveByContract(ctx context.Context, contractID string) (*Dispute, error)
	Update(ctx context.Context, dispute *Dispute, expected ...DisputeStatus) error
	List(ctx context.Context, filter DisputeFilter) ([]*Dispute, int64, error)
	AddComment(ctx context.Context, comment *DisputeComment) error
	ListComments(ctx context.Context, disputeID string) ([]*DisputeComment, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	// ListByContract returns newest first; limit <= 0 means no limit.
	ListByContract(ctx context.Context, contractID string, limit int) ([]*AuditEntry, error)
}

type JobRepository interface {
	GetByID(ctx context.Context, id string) (*Job, error)
	UpdateStatus(ctx context.Context, id string, status JobStatus) error
}

type RatingRepository interface {
	Create(ctx context.Context, rating *Rating) error
	Exists(ctx context.Context, jobID, reviewerID, revieweeID string) (bool, error)
	ListByReviewee(ctx context.Context, userID string, page, limit int) ([]*Rating, int64, error)
}

type Repositories struct {
	Contracts  ContractRepository
	Milestones MilestoneRepository
	Escrow     EscrowRepository
	Wallets    WalletRepository
	Disputes   DisputeRepository
	Audit      AuditRepository
	Jobs       JobRepository
	Ratings    RatingRepository
}

// UnitOfWork - границы транзакции. Всё, что выполняется внутри Do, фиксируется
// целиком или откатывается при ошибке
type UnitOfWork interface {
	Repositories() *Repositories
	Do(ctx context.Context, fn func(repos *Repositories) error) error
	Ping(ctx context.Context) error
}
