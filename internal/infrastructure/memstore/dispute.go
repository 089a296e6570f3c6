package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type disputeRepo struct{ view }

func (r *disputeRepo) Create(_ context.Context, dispute *domain.Dispute) error {
	defer r.enter()()
	st := r.s.st
	if dispute.Status.IsActive() {
		for _, d := range st.disputes {
			if d.ContractID == dispute.ContractID && d.Status.IsActive() {
				return fmt.Errorf("create dispute: contract %s already has an active dispute", dispute.ContractID)
			}
		}
	}
	now := time.Now()
	dispute.CreatedAt, dispute.UpdatedAt = now, now
	stored := *dispute
	stored.Comments = nil
	st.disputes[dispute.ID] = stored
	st.disputeOrder = append(st.disputeOrder, dispute.ID)
	return nil
}

func (r *disputeRepo) GetByID(_ context.Context, id string) (*domain.Dispute, error) {
	defer r.enter()()
	d, ok := r.s.st.disputes[id]
	if !ok {
		return nil, fmt.Errorf("dispute: %w", domain.ErrNotFound)
	}
	return &d, nil
}

func (r *disputeRepo) FindActiveByContract(_ context.Context, contractID string) (*domain.Dispute, error) {
	defer r.enter()()
	for _, d := range r.s.st.disputes {
		if d.ContractID == contractID && d.Status.IsActive() {
			found := d
			return &found, nil
		}
	}
	return nil, fmt.Errorf("dispute: %w", domain.ErrNotFound)
}

func (r *disputeRepo) Update(_ context.Context, dispute *domain.Dispute, expected ...domain.DisputeStatus) error {
	defer r.enter()()
	st := r.s.st
	current, ok := st.disputes[dispute.ID]
	if !ok {
		return fmt.Errorf("dispute: %w", domain.ErrNotFound)
	}
	allowed := false
	for _, s := range expected {
		if current.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("dispute %s: %w", dispute.ID, domain.ErrInvalidState)
	}
	current.Status = dispute.Status
	current.ResolutionNotes = dispute.ResolutionNotes
	current.ResolvedBy = dispute.ResolvedBy
	current.ResolvedAt = dispute.ResolvedAt
	current.UpdatedAt = time.Now()
	dispute.UpdatedAt = current.UpdatedAt
	st.disputes[dispute.ID] = current
	return nil
}

func (r *disputeRepo) List(_ context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	defer r.enter()()
	st := r.s.st
	var matched []*domain.Dispute
	for i := len(st.disputeOrder) - 1; i >= 0; i-- {
		d := st.disputes[st.disputeOrder[i]]
		if filter.PartyID != "" {
			c, ok := st.contracts[d.ContractID]
			if !ok || !c.IsParty(filter.PartyID) {
				continue
			}
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		found := d
		matched = append(matched, &found)
	}
	start, end := paginate(len(matched), filter.Page, filter.Limit)
	return matched[start:end], int64(len(matched)), nil
}

func (r *disputeRepo) AddComment(_ context.Context, comment *domain.DisputeComment) error {
	defer r.enter()()
	st := r.s.st
	if _, ok := st.disputes[comment.DisputeID]; !ok {
		return fmt.Errorf("dispute: %w", domain.ErrNotFound)
	}
	comment.CreatedAt = time.Now()
	st.comments[comment.ID] = *comment
	st.commentOrder = append(st.commentOrder, comment.ID)
	return nil
}

func (r *disputeRepo) ListComments(_ context.Context, disputeID string) ([]*domain.DisputeComment, error) {
	defer r.enter()()
	st := r.s.st
	var out []*domain.DisputeComment
	for _, id := range st.commentOrder {
		c := st.comments[id]
		if c.DisputeID == disputeID {
			found := c
			out = append(out, &found)
		}
	}
	return out, nil
}
