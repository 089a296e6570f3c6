package response

import (
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type BalanceResponse struct {
	Currency         string    `json:"currency"`
	Balance          int64     `json:"balance"`
	AvailableBalance int64     `json:"available_balance"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type WalletResponse struct {
	UserID   string            `json:"user_id"`
	Balances []BalanceResponse `json:"balances"`
}

type TransactionResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"transaction_type"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	Reference  string    `json:"reference"`
	ContractID string    `json:"contract_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type WithdrawalResponse struct {
	ID            string    `json:"id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	RecipientCode string    `json:"recipient_code"`
	Reference     string    `json:"reference"`
	TransferCode  string    `json:"transfer_code,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromWallets(userID string, wallets []*domain.Wallet) WalletResponse {
	resp := WalletResponse{UserID: userID, Balances: make([]BalanceResponse, 0, len(wallets))}
	for _, w := range wallets {
		resp.Balances = append(resp.Balances, BalanceResponse{
			Currency:         w.Currency,
			Balance:          w.Balance,
			AvailableBalance: w.Available,
			UpdatedAt:        w.UpdatedAt,
		})
	}
	return resp
}

func FromTransactions(txs []*domain.WalletTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, TransactionResponse{
			ID:         tx.ID,
			Type:       string(tx.Type),
			Amount:     tx.Amount,
			Currency:   tx.Currency,
			Status:     string(tx.Status),
			Reference:  tx.Reference,
			ContractID: tx.ContractID,
			CreatedAt:  tx.CreatedAt,
		})
	}
	return out
}

func FromWithdrawal(w *domain.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:            w.ID,
		Amount:        w.Amount,
		Currency:      w.Currency,
		RecipientCode: w.RecipientCode,
		Reference:     w.Reference,
		TransferCode:  w.TransferCode,
		Status:        string(w.Status),
		CreatedAt:     w.CreatedAt,
	}
}
