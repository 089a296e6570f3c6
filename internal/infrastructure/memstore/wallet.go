package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type walletRepo struct{ view }

func (r *walletRepo) ListWallets(_ context.Context, userID string) ([]*domain.Wallet, error) {
	defer r.enter()()
	var out []*domain.Wallet
	for k, w := range r.s.st.wallets {
		if k.userID == userID {
			found := w
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}

func (r *walletRepo) GetWallet(_ context.Context, userID, currency string) (*domain.Wallet, error) {
	defer r.enter()()
	w, ok := r.s.st.wallets[walletKey{userID, currency}]
	if !ok {
		return nil, fmt.Errorf("wallet: %w", domain.ErrNotFound)
	}
	return &w, nil
}

func (r *walletRepo) Credit(_ context.Context, userID, currency string, amount int64) error {
	defer r.enter()()
	key := walletKey{userID, currency}
	w, ok := r.s.st.wallets[key]
	if !ok {
		w = domain.Wallet{UserID: userID, Currency: currency}
	}
	w.Balance += amount
	w.Available += amount
	w.UpdatedAt = time.Now()
	r.s.st.wallets[key] = w
	return nil
}

func (r *walletRepo) Reserve(_ context.Context, userID, currency string, amount int64) error {
	defer r.enter()()
	key := walletKey{userID, currency}
	w, ok := r.s.st.wallets[key]
	if !ok || w.Available < amount {
		return domain.ErrInsufficientFunds
	}
	w.Available -= amount
	w.UpdatedAt = time.Now()
	r.s.st.wallets[key] = w
	return nil
}

func (r *walletRepo) ReleaseReservation(_ context.Context, userID, currency string, amount int64) error {
	defer r.enter()()
	key := walletKey{userID, currency}
	w, ok := r.s.st.wallets[key]
	if !ok {
		return fmt.Errorf("wallet: %w", domain.ErrNotFound)
	}
	w.Available += amount
	w.UpdatedAt = time.Now()
	r.s.st.wallets[key] = w
	return nil
}

func (r *walletRepo) DebitReserved(_ context.Context, userID, currency string, amount int64) error {
	defer r.enter()()
	key := walletKey{userID, currency}
	w, ok := r.s.st.wallets[key]
	if !ok || w.Balance < amount {
		return domain.ErrInsufficientFunds
	}
	w.Balance -= amount
	w.UpdatedAt = time.Now()
	r.s.st.wallets[key] = w
	return nil
}

func (r *walletRepo) CreateTransaction(_ context.Context, tx *domain.WalletTransaction) error {
	defer r.enter()()
	st := r.s.st
	for _, existing := range st.walletTxs {
		if existing.Reference == tx.Reference {
			return fmt.Errorf("create wallet transaction: duplicate reference %s", tx.Reference)
		}
	}
	tx.CreatedAt = time.Now()
	st.walletTxs[tx.ID] = *tx
	st.walletTxOrder = append(st.walletTxOrder, tx.ID)
	return nil
}

func (r *walletRepo) UpdateTransactionStatus(_ context.Context, reference string, status domain.WalletTxStatus) error {
	defer r.enter()()
	for id, tx := range r.s.st.walletTxs {
		if tx.Reference == reference {
			tx.Status = status
			r.s.st.walletTxs[id] = tx
		}
	}
	return nil
}

func (r *walletRepo) ListTransactions(_ context.Context, userID string, page, limit int) ([]*domain.WalletTransaction, int64, error) {
	defer r.enter()()
	st := r.s.st
	var matched []*domain.WalletTransaction
	for i := len(st.walletTxOrder) - 1; i >= 0; i-- {
		tx := st.walletTxs[st.walletTxOrder[i]]
		if tx.UserID == userID {
			found := tx
			matched = append(matched, &found)
		}
	}
	start, end := paginate(len(matched), page, limit)
	return matched[start:end], int64(len(matched)), nil
}

func (r *walletRepo) CreateWithdrawal(_ context.Context, w *domain.Withdrawal) error {
	defer r.enter()()
	now := time.Now()
	w.CreatedAt, w.UpdatedAt = now, now
	r.s.st.withdrawals[w.ID] = *w
	return nil
}

func (r *walletRepo) GetWithdrawalForUpdate(_ context.Context, reference string) (*domain.Withdrawal, error) {
	defer r.enter()()
	for _, w := range r.s.st.withdrawals {
		if w.Reference == reference {
			found := w
			return &found, nil
		}
	}
	return nil, fmt.Errorf("withdrawal: %w", domain.ErrNotFound)
}

func (r *walletRepo) UpdateWithdrawal(_ context.Context, w *domain.Withdrawal) error {
	defer r.enter()()
	if _, ok := r.s.st.withdrawals[w.ID]; !ok {
		return fmt.Errorf("withdrawal: %w", domain.ErrNotFound)
	}
	w.UpdatedAt = time.Now()
	r.s.st.withdrawals[w.ID] = *w
	return nil
}
