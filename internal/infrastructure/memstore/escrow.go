package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type escrowRepo struct{ view }

func (r *escrowRepo) Create(_ context.Context, tx *domain.EscrowTransaction) error {
	defer r.enter()()
	st := r.s.st
	for _, existing := range st.escrow {
		if existing.Reference == tx.Reference {
			return fmt.Errorf("create escrow transaction: duplicate reference %s", tx.Reference)
		}
		if tx.IdempotencyKey != "" && existing.ContractID == tx.ContractID && existing.IdempotencyKey == tx.IdempotencyKey {
			return fmt.Errorf("create escrow transaction: duplicate idempotency key")
		}
	}
	tx.CreatedAt = time.Now()
	st.escrow[tx.ID] = *tx
	st.escrowOrder = append(st.escrowOrder, tx.ID)
	return nil
}

func (r *escrowRepo) byReference(reference string) (*domain.EscrowTransaction, error) {
	for _, tx := range r.s.st.escrow {
		if tx.Reference == reference {
			found := tx
			return &found, nil
		}
	}
	return nil, fmt.Errorf("escrow transaction: %w", domain.ErrNotFound)
}

func (r *escrowRepo) GetByReference(_ context.Context, reference string) (*domain.EscrowTransaction, error) {
	defer r.enter()()
	return r.byReference(reference)
}

func (r *escrowRepo) GetByReferenceForUpdate(_ context.Context, reference string) (*domain.EscrowTransaction, error) {
	defer r.enter()()
	return r.byReference(reference)
}

func (r *escrowRepo) GetByIdempotencyKey(_ context.Context, contractID, key string) (*domain.EscrowTransaction, error) {
	defer r.enter()()
	for _, tx := range r.s.st.escrow {
		if tx.ContractID == contractID && tx.IdempotencyKey == key {
			found := tx
			return &found, nil
		}
	}
	return nil, fmt.Errorf("escrow transaction: %w", domain.ErrNotFound)
}

func (r *escrowRepo) UpdateStatus(_ context.Context, id string, from, to domain.EscrowTxStatus, reason string, at *time.Time) error {
	defer r.enter()()
	st := r.s.st
	tx, ok := st.escrow[id]
	if !ok || tx.Status != from {
		return fmt.Errorf("escrow transaction %s is not %s: %w", id, from, domain.ErrInvalidState)
	}
	tx.Status = to
	tx.FailureReason = reason
	if to == domain.EscrowTxConfirmed {
		tx.ConfirmedAt = at
	}
	st.escrow[id] = tx
	return nil
}

func (r *escrowRepo) ListByContract(_ context.Context, contractID string) ([]*domain.EscrowTransaction, error) {
	defer r.enter()()
	st := r.s.st
	var out []*domain.EscrowTransaction
	for _, id := range st.escrowOrder {
		tx := st.escrow[id]
		if tx.ContractID == contractID {
			found := tx
			out = append(out, &found)
		}
	}
	return out, nil
}

func (r *escrowRepo) FindStaleDeposits(_ context.Context, before time.Time, limit int) ([]*domain.EscrowTransaction, error) {
	defer r.enter()()
	st := r.s.st
	var out []*domain.EscrowTransaction
	for _, id := range st.escrowOrder {
		if limit > 0 && len(out) >= limit {
			break
		}
		tx := st.escrow[id]
		if tx.Kind == domain.EscrowDeposit && tx.Status == domain.EscrowTxInitiated && tx.CreatedAt.Before(before) {
			found := tx
			out = append(out, &found)
		}
	}
	return out, nil
}
