package response

import (
	"encoding/json"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type MilestoneResponse struct {
	ID          string     `json:"id"`
	ContractID  string     `json:"contract_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount"`
	DueDate     *time.Time `json:"due_date"`
	Position    int        `json:"position"`
	Status      string     `json:"status"`
	ReleasedAt  *time.Time `json:"released_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type AuditEntryResponse struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	PerformedBy string         `json:"performed_by"`
	Details     map[string]any `json:"details"`
	Summary     string         `json:"summary"`
	CreatedAt   time.Time      `json:"created_at"`
}

type EscrowTransactionResponse struct {
	ID               string     `json:"id"`
	ContractID       string     `json:"contract_id"`
	MilestoneID      string     `json:"milestone_id,omitempty"`
	Kind             string     `json:"kind"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Reference        string     `json:"reference"`
	AuthorizationURL string     `json:"authorization_url,omitempty"`
	Status           string     `json:"status"`
	FailureReason    string     `json:"failure_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at"`
}

type ContractResponse struct {
	ID                 string               `json:"id"`
	JobID              string               `json:"job_id"`
	ClientID           string               `json:"client_id"`
	FreelancerID       string               `json:"freelancer_id"`
	AgreedBid          int64                `json:"agreed_bid"`
	Currency           string               `json:"currency"`
	Terms              json.RawMessage      `json:"terms"`
	ContractText       string               `json:"contract_text"`
	Status             string               `json:"status"`
	EscrowStatus       string               `json:"escrow_status"`
	EscrowFunded       int64                `json:"escrow_funded"`
	EscrowReleased     int64                `json:"escrow_released"`
	EscrowRefunded     int64                `json:"escrow_refunded"`
	EscrowBalance      int64                `json:"escrow_balance"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
	ExpiresAt          *time.Time           `json:"expires_at"`
	CompletedAt        *time.Time           `json:"completed_at"`
	CancelledAt        *time.Time           `json:"cancelled_at"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	Milestones         []MilestoneResponse  `json:"milestones,omitempty"`
	RecentAudit        []AuditEntryResponse `json:"recent_audit,omitempty"`
}

func FromMilestone(m *domain.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:          m.ID,
		ContractID:  m.ContractID,
		Title:       m.Title,
		Description: m.Description,
		Amount:      m.Amount,
		DueDate:     m.DueDate,
		Position:    m.Position,
		Status:      string(m.Status),
		ReleasedAt:  m.ReleasedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func FromMilestones(milestones []*domain.Milestone) []MilestoneResponse {
	out := make([]MilestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, FromMilestone(m))
	}
	return out
}

func FromAuditEntries(entries []*domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:          e.ID,
			Action:      string(e.Action),
			PerformedBy: e.PerformedBy,
			Details:     e.Details,
			Summary:     e.Summary,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

func FromEscrowTransaction(tx *domain.EscrowTransaction) EscrowTransactionResponse {
	return EscrowTransactionResponse{
		ID:               tx.ID,
		ContractID:       tx.ContractID,
		MilestoneID:      tx.MilestoneID,
		Kind:             string(tx.Kind),
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		Reference:        tx.Reference,
		AuthorizationURL: tx.AuthorizationURL,
		Status:           string(tx.Status),
		FailureReason:    tx.FailureReason,
		CreatedAt:        tx.CreatedAt,
		ConfirmedAt:      tx.ConfirmedAt,
	}
}

func FromEscrowTransactions(txs []*domain.EscrowTransaction) []EscrowTransactionResponse {
	out := make([]EscrowTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, FromEscrowTransaction(tx))
	}
	return out
}

func FromContract(c *domain.Contract) ContractResponse {
	terms := json.RawMessage(c.Terms)
	if len(terms) == 0 || !json.Valid(terms) {
		terms = json.RawMessage("{}")
	}
	resp := ContractResponse{
		ID:                 c.ID,
		JobID:              c.JobID,
		ClientID:           c.ClientID,
		FreelancerID:       c.FreelancerID,
		AgreedBid:          c.AgreedBid,
		Currency:           c.Currency,
		Terms:              terms,
		ContractText:       c.ContractText,
		Status:             string(c.Status),
		EscrowStatus:       string(c.EscrowStatus),
		EscrowFunded:       c.EscrowFunded,
		EscrowReleased:     c.EscrowReleased,
		EscrowRefunded:     c.EscrowRefunded,
		EscrowBalance:      c.EscrowBalance(),
		CancellationReason: c.CancelReason,
		ExpiresAt:          c.ExpiresAt,
		CompletedAt:        c.CompletedAt,
		CancelledAt:        c.CancelledAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if len(c.Milestones) > 0 {
		resp.Milestones = FromMilestones(c.Milestones)
	}
	return resp
}

func FromContracts(contracts []*domain.Contract) []ContractResponse {
	out := make([]ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, FromContract(c))
	}
	return out
}
