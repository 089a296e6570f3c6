package domain

import (
	"fmt"
	"strings"
	"time"
)

type AuditAction string

const (
	AuditContractCreated   AuditAction = "contract_created"
	AuditContractAccepted  AuditAction = "contract_accepted"
	AuditContractRejected  AuditAction = "contract_rejected"
	AuditContractCancelled AuditAction = "contract_cancelled"
	AuditContractExpired   AuditAction = "contract_expired"
	AuditMilestoneAdded    AuditAction = "milestone_added"
	AuditEscrowDeposited   AuditAction = "escrow_deposited"
	AuditWorkStarted       AuditAction = "work_started"
	AuditWorkSubmitted     AuditAction = "work_submitted"
	AuditPaymentReleased   AuditAction = "payment_released"
	AuditEscrowRefunded    AuditAction = "escrow_refunded"
	AuditContractCompleted AuditAction = "contract_completed"
	AuditDisputeRaised     AuditAction = "dispute_raised"
	AuditDisputeResolved   AuditAction = "dispute_resolved"
)

// AuditEntry - запись журнала действий по контракту. Только добавление
type AuditEntry struct {
	ID          string
	ContractID  string
	Action      AuditAction
	PerformedBy string
	Details     map[string]any
	Summary     string
	CreatedAt   time.Time
}

func AuditSummary(action AuditAction, performedBy string) string {
	human := strings.ReplaceAll(string(action), "_", " ")
	if performedBy == "" {
		return human
	}
	return fmt.Sprintf("%s by %s", human, performedBy)
}
