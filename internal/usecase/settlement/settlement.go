// Package settlement holds the money movements shared by the contract, escrow
// and dispute usecases. Every helper runs inside the caller's unit of work.
package settlement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

var referenceGenerator = mustGenerator()

func mustGenerator() func() string {
	gen, err := nanoid.Standard(21)
	if err != nil {
		panic(err)
	}
	return gen
}

func NewID() string {
	return uuid.New().String()
}

// NewReference - уникальная ссылка для платежного шлюза и журнала кошелька
func NewReference(prefix string) string {
	return prefix + "_" + referenceGenerator()
}

func RecordAudit(ctx context.Context, repos *domain.Repositories, contractID string, action domain.AuditAction, actorID string, details map[string]any) error {
	entry := &domain.AuditEntry{
		ID:          NewID(),
		ContractID:  contractID,
		Action:      action,
		PerformedBy: actorID,
		Details:     details,
		Summary:     domain.AuditSummary(action, actorID),
	}
	if err := repos.Audit.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit %s: %w", action, err)
	}
	return nil
}

// CreditWallet зачисляет сумму на кошелек и пишет завершенную транзакцию кошелька
func CreditWallet(ctx context.Context, repos *domain.Repositories, userID, currency string, amount int64, txType domain.WalletTxType, contractID string) error {
	if amount <= 0 {
		return nil
	}
	if err := repos.Wallets.Credit(ctx, userID, currency, amount); err != nil {
		return fmt.Errorf("credit wallet %s: %w", userID, err)
	}
	walletTx := &domain.WalletTransaction{
		ID:         NewID(),
		UserID:     userID,
		Currency:   currency,
		Type:       txType,
		Amount:     amount,
		Status:     domain.WalletTxCompleted,
		Reference:  NewReference("wtx"),
		ContractID: contractID,
	}
	if err := repos.Wallets.CreateTransaction(ctx, walletTx); err != nil {
		return fmt.Errorf("record wallet transaction: %w", err)
	}
	return nil
}

func recordEscrowMovement(ctx context.Context, repos *domain.Repositories, c *domain.Contract, kind domain.EscrowTxKind, milestoneID string, amount int64) error {
	now := time.Now()
	prefix := "rel"
	if kind == domain.EscrowRefund {
		prefix = "rfd"
	}
	return repos.Escrow.Create(ctx, &domain.EscrowTransaction{
		ID:          NewID(),
		ContractID:  c.ID,
		MilestoneID: milestoneID,
		Kind:        kind,
		Amount:      amount,
		Currency:    c.Currency,
		Reference:   NewReference(prefix),
		Status:      domain.EscrowTxConfirmed,
		ConfirmedAt: &now,
	})
}

// ReleaseMilestone переводит сумму оплаченной вехи фрилансеру
func ReleaseMilestone(ctx context.Context, repos *domain.Repositories, c *domain.Contract, m *domain.Milestone) error {
	if m.Status != domain.MilestoneFunded {
		return fmt.Errorf("milestone %s is %s: %w", m.ID, m.Status, domain.ErrInvalidState)
	}
	if c.EscrowBalance() < m.Amount {
		return fmt.Errorf("escrow balance %d below milestone amount %d: %w", c.EscrowBalance(), m.Amount, domain.ErrInvalidState)
	}
	now := time.Now()
	if err := repos.Milestones.UpdateStatus(ctx, m.ID, domain.MilestoneFunded, domain.MilestoneReleased, &now); err != nil {
		return err
	}
	m.Status = domain.MilestoneReleased
	m.ReleasedAt = &now

	c.EscrowReleased += m.Amount
	if err := recordEscrowMovement(ctx, repos, c, domain.EscrowRelease, m.ID, m.Amount); err != nil {
		return fmt.Errorf("record escrow release: %w", err)
	}
	return CreditWallet(ctx, repos, c.FreelancerID, c.Currency, m.Amount, domain.WalletTxEscrowRelease, c.ID)
}

// RefundEscrow возвращает клиенту весь невыплаченный остаток эскроу.
// Невыплаченные вехи помечаются как возвращенные. Возвращает сумму возврата
func RefundEscrow(ctx context.Context, repos *domain.Repositories, c *domain.Contract) (int64, error) {
	milestones, err := repos.Milestones.ListByContract(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	for _, m := range milestones {
		if m.Status == domain.MilestonePending || m.Status == domain.MilestoneFunded {
			if err := repos.Milestones.UpdateStatus(ctx, m.ID, m.Status, domain.MilestoneRefunded, nil); err != nil {
				return 0, err
			}
			m.Status = domain.MilestoneRefunded
		}
	}

	amount := c.EscrowBalance()
	if amount <= 0 {
		return 0, nil
	}
	c.EscrowRefunded += amount
	if err := recordEscrowMovement(ctx, repos, c, domain.EscrowRefund, "", amount); err != nil {
		return 0, fmt.Errorf("record escrow refund: %w", err)
	}
	if err := CreditWallet(ctx, repos, c.ClientID, c.Currency, amount, domain.WalletTxRefund, c.ID); err != nil {
		return 0, err
	}
	return amount, nil
}

// RefundOverfunding возвращает клиенту подтвержденную сумму сверх ставки контракта
func RefundOverfunding(ctx context.Context, repos *domain.Repositories, c *domain.Contract) (int64, error) {
	excess := c.EscrowFunded - c.EscrowRefunded - c.AgreedBid
	if excess <= 0 {
		return 0, nil
	}
	c.EscrowRefunded += excess
	if err := recordEscrowMovement(ctx, repos, c, domain.EscrowRefund, "", excess); err != nil {
		return 0, fmt.Errorf("record overfunding refund: %w", err)
	}
	if err := CreditWallet(ctx, repos, c.ClientID, c.Currency, excess, domain.WalletTxRefund, c.ID); err != nil {
		return 0, err
	}
	return excess, nil
}

// FundMilestones marks pending milestones funded in position order while the
// confirmed escrow covers them. Returns the milestones that changed.
func FundMilestones(ctx context.Context, repos *domain.Repositories, c *domain.Contract) ([]*domain.Milestone, error) {
	milestones, err := repos.Milestones.ListByContract(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(milestones, func(i, j int) bool { return milestones[i].Position < milestones[j].Position })

	var covered int64
	for _, m := range milestones {
		if m.Status == domain.MilestoneFunded || m.Status == domain.MilestoneReleased {
			covered += m.Amount
		}
	}

	var funded []*domain.Milestone
	for _, m := range milestones {
		if m.Status != domain.MilestonePending {
			continue
		}
		if covered+m.Amount > c.EscrowFunded {
			break
		}
		if err := repos.Milestones.UpdateStatus(ctx, m.ID, domain.MilestonePending, domain.MilestoneFunded, nil); err != nil {
			return nil, err
		}
		m.Status = domain.MilestoneFunded
		covered += m.Amount
		funded = append(funded, m)
	}
	return funded, nil
}

// Transition переводит контракт в новый статус с проверкой графа переходов и записью в журнал
func Transition(ctx context.Context, repos *domain.Repositories, c *domain.Contract, to domain.ContractStatus, actorID string, action domain.AuditAction, details map[string]any) error {
	from := c.Status
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("contract %s: %s -> %s: %w", c.ID, from, to, domain.ErrInvalidState)
	}
	c.Status = to
	c.RefreshEscrowStatus()
	if err := repos.Contracts.Update(ctx, c, from); err != nil {
		return err
	}
	if action == "" {
		return nil
	}
	return RecordAudit(ctx, repos, c.ID, action, actorID, details)
}

func AllReleased(milestones []*domain.Milestone) bool {
	if len(milestones) == 0 {
		return false
	}
	for _, m := range milestones {
		if m.Status != domain.MilestoneReleased {
			return false
		}
	}
	return true
}
