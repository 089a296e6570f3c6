package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type auditRepo struct{ view }

func (r *auditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	defer r.enter()()
	entry.CreatedAt = time.Now()
	r.s.st.audit = append(r.s.st.audit, *entry)
	return nil
}

func (r *auditRepo) ListByContract(_ context.Context, contractID string, limit int) ([]*domain.AuditEntry, error) {
	defer r.enter()()
	var out []*domain.AuditEntry
	for i := len(r.s.st.audit) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		e := r.s.st.audit[i]
		if e.ContractID == contractID {
			found := e
			out = append(out, &found)
		}
	}
	return out, nil
}

type jobRepo struct{ view }

func (r *jobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	defer r.enter()()
	job, ok := r.s.st.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job: %w", domain.ErrNotFound)
	}
	return &job, nil
}

func (r *jobRepo) UpdateStatus(_ context.Context, id string, status domain.JobStatus) error {
	defer r.enter()()
	job, ok := r.s.st.jobs[id]
	if !ok {
		return fmt.Errorf("job: %w", domain.ErrNotFound)
	}
	job.Status = status
	r.s.st.jobs[id] = job
	return nil
}

type ratingRepo struct{ view }

func (r *ratingRepo) Create(_ context.Context, rating *domain.Rating) error {
	defer r.enter()()
	st := r.s.st
	for _, existing := range st.ratings {
		if existing.JobID == rating.JobID && existing.ReviewerID == rating.ReviewerID && existing.RevieweeID == rating.RevieweeID {
			return fmt.Errorf("create rating: duplicate rating for job %s", rating.JobID)
		}
	}
	rating.CreatedAt = time.Now()
	st.ratings[rating.ID] = *rating
	st.ratingOrder = append(st.ratingOrder, rating.ID)
	return nil
}

func (r *ratingRepo) Exists(_ context.Context, jobID, reviewerID, revieweeID string) (bool, error) {
	defer r.enter()()
	for _, existing := range r.s.st.ratings {
		if existing.JobID == jobID && existing.ReviewerID == reviewerID && existing.RevieweeID == revieweeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ratingRepo) ListByReviewee(_ context.Context, userID string, page, limit int) ([]*domain.Rating, int64, error) {
	defer r.enter()()
	st := r.s.st
	var matched []*domain.Rating
	for i := len(st.ratingOrder) - 1; i >= 0; i-- {
		rt := st.ratings[st.ratingOrder[i]]
		if rt.RevieweeID == userID {
			found := rt
			matched = append(matched, &found)
		}
	}
	start, end := paginate(len(matched), page, limit)
	return matched[start:end], int64(len(matched)), nil
}
