package domain

import "time"

type EscrowTxKind string

const (
	EscrowDeposit EscrowTxKind = "deposit"
	EscrowRelease EscrowTxKind = "release"
	EscrowRefund  EscrowTxKind = "refund"
)

type EscrowTxStatus string

const (
	EscrowTxInitiated EscrowTxStatus = "initiated"
	EscrowTxConfirmed EscrowTxStatus = "confirmed"
	EscrowTxFailed    EscrowTxStatus = "failed"
)

// EscrowTransaction - движение средств по эскроу контракта.
// Депозиты подтверждаются только через сверку с платежным шлюзом
type EscrowTransaction struct {
	ID               string
	ContractID       string
	MilestoneID      string
	Kind             EscrowTxKind
	Amount           int64
	Currency         string
	Reference        string
	IdempotencyKey   string
	AuthorizationURL string
	Status           EscrowTxStatus
	FailureReason    string
	CreatedAt        time.Time
	ConfirmedAt      *time.Time
}
