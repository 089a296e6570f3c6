package walletdto

import "github.com/LavaJover/freelink-contract-service/internal/domain"

type WalletTransactionsOutput struct {
	Transactions []*domain.WalletTransaction
	Total        int64
}
