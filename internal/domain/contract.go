package domain

import (
	"time"
)

type ContractStatus string

const (
	ContractPending    ContractStatus = "pending"
	ContractAccepted   ContractStatus = "accepted"
	ContractInProgress ContractStatus = "in_progress"
	ContractSubmitted  ContractStatus = "submitted"
	ContractCompleted  ContractStatus = "completed"
	ContractDisputed   ContractStatus = "disputed"
	ContractCancelled  ContractStatus = "cancelled"
	ContractRejected   ContractStatus = "rejected"
)

type EscrowStatus string

const (
	EscrowNotFunded       EscrowStatus = "not_funded"
	EscrowPartiallyFunded EscrowStatus = "partially_funded"
	EscrowFunded          EscrowStatus = "funded"
	EscrowReleased        EscrowStatus = "released"
	EscrowRefunded        EscrowStatus = "refunded"
)

var SupportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"GHS": true,
	"NGN": true,
	"KES": true,
}

var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractPending:    {ContractAccepted, ContractRejected, ContractCancelled, ContractDisputed},
	ContractAccepted:   {ContractInProgress, ContractCancelled, ContractDisputed},
	ContractInProgress: {ContractSubmitted, ContractDisputed},
	ContractSubmitted:  {ContractCompleted, ContractDisputed},
	ContractDisputed:   {ContractInProgress, ContractCancelled, ContractPending, ContractAccepted},
}

// Contract - соглашение между клиентом и фрилансером по конкретной работе.
// Суммы хранятся в минимальных единицах валюты
type Contract struct {
	ID               string
	JobID            string
	ClientID         string
	FreelancerID     string
	AgreedBid        int64
	Currency         string
	Terms            string
	ContractText     string
	Status           ContractStatus
	EscrowStatus     EscrowStatus
	EscrowFunded     int64
	EscrowReleased   int64
	EscrowRefunded   int64
	PreDisputeStatus ContractStatus
	CancelReason     string
	ExpiresAt        *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Milestones []*Milestone
}

func (c *Contract) IsParty(userID string) bool {
	return userID != "" && (c.ClientID == userID || c.FreelancerID == userID)
}

func (c *Contract) CanTransition(to ContractStatus) bool {
	return CanTransition(c.Status, to)
}

func CanTransition(from, to ContractStatus) bool {
	for _, s := range contractTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EscrowBalance - средства, находящиеся на эскроу и еще не выплаченные/не возвращенные
func (c *Contract) EscrowBalance() int64 {
	return c.EscrowFunded - c.EscrowReleased - c.EscrowRefunded
}

func (c *Contract) FullyFunded() bool {
	return c.EscrowFunded >= c.AgreedBid
}

func (c *Contract) RemainingToFund() int64 {
	if c.FullyFunded() {
		return 0
	}
	return c.AgreedBid - c.EscrowFunded
}

// RefreshEscrowStatus derives the contract-wide escrow status from the amounts.
func (c *Contract) RefreshEscrowStatus() {
	switch {
	case c.EscrowRefunded > 0 && c.EscrowReleased == 0 && c.EscrowBalance() == 0:
		c.EscrowStatus = EscrowRefunded
	case c.EscrowReleased > 0 && c.EscrowBalance() == 0:
		c.EscrowStatus = EscrowReleased
	case c.EscrowFunded == 0:
		c.EscrowStatus = EscrowNotFunded
	case c.FullyFunded():
		c.EscrowStatus = EscrowFunded
	default:
		c.EscrowStatus = EscrowPartiallyFunded
	}
}

func StatusIn(status ContractStatus, allowed ...ContractStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

type ContractFilter struct {
	PartyID string
	Status  *ContractStatus
	Page    int
	Limit   int
}
