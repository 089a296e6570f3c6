// Package memstore keeps every repository in process memory. It backs the
// "memory" database driver and the usecase/delivery tests.
package memstore

import (
	"context"
	"sync"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type walletKey struct {
	userID   string
	currency string
}

type state struct {
	contracts       map[string]domain.Contract
	contractOrder   []string
	milestones      map[string]domain.Milestone
	escrow          map[string]domain.EscrowTransaction
	escrowOrder     []string
	wallets         map[walletKey]domain.Wallet
	walletTxs       map[string]domain.WalletTransaction
	walletTxOrder   []string
	withdrawals     map[string]domain.Withdrawal
	disputes        map[string]domain.Dispute
	disputeOrder    []string
	comments        map[string]domain.DisputeComment
	commentOrder    []string
	audit           []domain.AuditEntry
	jobs            map[string]domain.Job
	ratings         map[string]domain.Rating
	ratingOrder     []string
	milestonesOrder []string
}

func newState() *state {
	return &state{
		contracts:   make(map[string]domain.Contract),
		milestones:  make(map[string]domain.Milestone),
		escrow:      make(map[string]domain.EscrowTransaction),
		wallets:     make(map[walletKey]domain.Wallet),
		walletTxs:   make(map[string]domain.WalletTransaction),
		withdrawals: make(map[string]domain.Withdrawal),
		disputes:    make(map[string]domain.Dispute),
		comments:    make(map[string]domain.DisputeComment),
		jobs:        make(map[string]domain.Job),
		ratings:     make(map[string]domain.Rating),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	return append([]T(nil), s...)
}

func (s *state) clone() *state {
	return &state{
		contracts:       cloneMap(s.contracts),
		contractOrder:   cloneSlice(s.contractOrder),
		milestones:      cloneMap(s.milestones),
		milestonesOrder: cloneSlice(s.milestonesOrder),
		escrow:          cloneMap(s.escrow),
		escrowOrder:     cloneSlice(s.escrowOrder),
		wallets:         cloneMap(s.wallets),
		walletTxs:       cloneMap(s.walletTxs),
		walletTxOrder:   cloneSlice(s.walletTxOrder),
		withdrawals:     cloneMap(s.withdrawals),
		disputes:        cloneMap(s.disputes),
		disputeOrder:    cloneSlice(s.disputeOrder),
		comments:        cloneMap(s.comments),
		commentOrder:    cloneSlice(s.commentOrder),
		audit:           cloneSlice(s.audit),
		jobs:            cloneMap(s.jobs),
		ratings:         cloneMap(s.ratings),
		ratingOrder:     cloneSlice(s.ratingOrder),
	}
}

// Store реализует domain.UnitOfWork в памяти. Do сериализует транзакции
// глобальной блокировкой и откатывает снимок состояния при ошибке
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

type view struct {
	s  *Store
	tx bool
}

// enter locks the store for a single call unless the caller already holds it inside Do.
func (v view) enter() func() {
	if v.tx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (s *Store) repos(tx bool) *domain.Repositories {
	v := view{s: s, tx: tx}
	return &domain.Repositories{
		Contracts:  &contractRepo{v},
		Milestones: &milestoneRepo{v},
		Escrow:     &escrowRepo{v},
		Wallets:    &walletRepo{v},
		Disputes:   &disputeRepo{v},
		Audit:      &auditRepo{v},
		Jobs:       &jobRepo{v},
		Ratings:    &ratingRepo{v},
	}
}

func (s *Store) Repositories() *domain.Repositories {
	return s.repos(false)
}

func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// PutJob seeds a job row; jobs are owned by another service.
func (s *Store) PutJob(job domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.jobs[job.ID] = job
}

func paginate(total, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return 0, total
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
