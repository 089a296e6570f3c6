package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type contractRepo struct{ view }

func (r *contractRepo) Create(_ context.Context, contract *domain.Contract) error {
	defer r.enter()()
	st := r.s.st
	if _, ok := st.contracts[contract.ID]; ok {
		return fmt.Errorf("create contract: duplicate id %s", contract.ID)
	}
	for _, c := range st.contracts {
		if c.JobID == contract.JobID {
			return fmt.Errorf("create contract: job %s already has a contract", contract.JobID)
		}
	}
	now := time.Now()
	if contract.Version == 0 {
		contract.Version = 1
	}
	contract.CreatedAt, contract.UpdatedAt = now, now
	stored := *contract
	stored.Milestones = nil
	st.contracts[contract.ID] = stored
	st.contractOrder = append(st.contractOrder, contract.ID)
	return nil
}

func (r *contractRepo) get(id string) (*domain.Contract, error) {
	c, ok := r.s.st.contracts[id]
	if !ok {
		return nil, fmt.Errorf("contract: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (r *contractRepo) GetByID(_ context.Context, id string) (*domain.Contract, error) {
	defer r.enter()()
	return r.get(id)
}

func (r *contractRepo) GetForUpdate(_ context.Context, id string) (*domain.Contract, error) {
	defer r.enter()()
	return r.get(id)
}

func (r *contractRepo) GetByJobID(_ context.Context, jobID string) (*domain.Contract, error) {
	defer r.enter()()
	for _, c := range r.s.st.contracts {
		if c.JobID == jobID {
			found := c
			return &found, nil
		}
	}
	return nil, fmt.Errorf("contract: %w", domain.ErrNotFound)
}

func (r *contractRepo) Update(_ context.Context, contract *domain.Contract, expected domain.ContractStatus) error {
	defer r.enter()()
	st := r.s.st
	current, ok := st.contracts[contract.ID]
	if !ok {
		return fmt.Errorf("contract: %w", domain.ErrNotFound)
	}
	if current.Status != expected || current.Version != contract.Version {
		return fmt.Errorf("contract %s is no longer %s: %w", contract.ID, expected, domain.ErrInvalidState)
	}
	contract.Version++
	contract.UpdatedAt = time.Now()
	stored := *contract
	stored.Milestones = nil
	// неизменяемые поля не трогаем
	stored.JobID, stored.ClientID, stored.FreelancerID = current.JobID, current.ClientID, current.FreelancerID
	stored.AgreedBid, stored.Currency, stored.CreatedAt = current.AgreedBid, current.Currency, current.CreatedAt
	st.contracts[contract.ID] = stored
	return nil
}

func (r *contractRepo) List(_ context.Context, filter domain.ContractFilter) ([]*domain.Contract, int64, error) {
	defer r.enter()()
	st := r.s.st
	var matched []*domain.Contract
	// новые первыми
	for i := len(st.contractOrder) - 1; i >= 0; i-- {
		c := st.contracts[st.contractOrder[i]]
		if filter.PartyID != "" && !c.IsParty(filter.PartyID) {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		found := c
		matched = append(matched, &found)
	}
	start, end := paginate(len(matched), filter.Page, filter.Limit)
	return matched[start:end], int64(len(matched)), nil
}

func (r *contractRepo) FindExpiredPending(_ context.Context, now time.Time) ([]*domain.Contract, error) {
	defer r.enter()()
	st := r.s.st
	var expired []*domain.Contract
	for _, id := range st.contractOrder {
		c := st.contracts[id]
		if c.Status == domain.ContractPending && c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
			found := c
			expired = append(expired, &found)
		}
	}
	return expired, nil
}

type milestoneRepo struct{ view }

func (r *milestoneRepo) CreateBatch(_ context.Context, milestones []*domain.Milestone) error {
	defer r.enter()()
	st := r.s.st
	now := time.Now()
	for _, m := range milestones {
		if _, ok := st.milestones[m.ID]; ok {
			return fmt.Errorf("create milestones: duplicate id %s", m.ID)
		}
		m.CreatedAt = now
		st.milestones[m.ID] = *m
		st.milestonesOrder = append(st.milestonesOrder, m.ID)
	}
	return nil
}

func (r *milestoneRepo) GetByID(_ context.Context, id string) (*domain.Milestone, error) {
	defer r.enter()()
	m, ok := r.s.st.milestones[id]
	if !ok {
		return nil, fmt.Errorf("milestone: %w", domain.ErrNotFound)
	}
	return &m, nil
}

func (r *milestoneRepo) ListByContract(_ context.Context, contractID string) ([]*domain.Milestone, error) {
	defer r.enter()()
	st := r.s.st
	var out []*domain.Milestone
	for _, id := range st.milestonesOrder {
		m := st.milestones[id]
		if m.ContractID == contractID {
			found := m
			out = append(out, &found)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *milestoneRepo) UpdateStatus(_ context.Context, id string, from, to domain.MilestoneStatus, at *time.Time) error {
	defer r.enter()()
	st := r.s.st
	m, ok := st.milestones[id]
	if !ok || m.Status != from {
		return fmt.Errorf("milestone %s is not %s: %w", id, from, domain.ErrInvalidState)
	}
	m.Status = to
	if to == domain.MilestoneReleased {
		m.ReleasedAt = at
	}
	st.milestones[id] = m
	return nil
}
