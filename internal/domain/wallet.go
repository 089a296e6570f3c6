package domain

import "time"

// Wallet - баланс пользователя в одной валюте.
// Available = Balance минус суммы, зарезервированные под выводы в процессе
type Wallet struct {
	UserID    string
	Currency  string
	Balance   int64
	Available int64
	UpdatedAt time.Time
}

type WalletTxType string

const (
	WalletTxEscrowRelease WalletTxType = "escrow_release"
	WalletTxRefund        WalletTxType = "refund"
	WalletTxWithdrawal    WalletTxType = "withdrawal"
)

type WalletTxStatus string

const (
	WalletTxPending   WalletTxStatus = "pending"
	WalletTxCompleted WalletTxStatus = "completed"
	WalletTxFailed    WalletTxStatus = "failed"
)

type WalletTransaction struct {
	ID         string
	UserID     string
	Currency   string
	Type       WalletTxType
	Amount     int64
	Status     WalletTxStatus
	Reference  string
	ContractID string
	CreatedAt  time.Time
}

type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalSuccessful WithdrawalStatus = "successful"
	WithdrawalFailed     WithdrawalStatus = "failed"
)

type Withdrawal struct {
	ID            string
	UserID        string
	Currency      string
	Amount        int64
	RecipientCode string
	Reference     string
	TransferCode  string
	Status        WithdrawalStatus
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
