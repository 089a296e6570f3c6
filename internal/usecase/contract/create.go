package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	contractdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/contract"
	"github.com/LavaJover/freelink-contract-service/internal/usecase/settlement"
	"go.uber.org/zap"
)

const lumpSumMilestoneTitle = "Full payment"

// CreateContract - клиент оформляет контракт по заказу, где уже выбран фрилансер
func (uc *DefaultContractUsecase) CreateContract(ctx context.Context, actor domain.Actor, input *contractdto.CreateContractInput) (*domain.Contract, error) {
	if !actor.HasRole(domain.RoleClient) {
		return nil, fmt.Errorf("only clients can create contracts: %w", domain.ErrPermissionDenied)
	}
	if verr := validateCreateInput(input); verr.HasErrors() {
		return nil, verr
	}

	terms := "{}"
	if len(input.Terms) > 0 {
		raw, err := json.Marshal(input.Terms)
		if err != nil {
			return nil, domain.NewValidationError("terms", "Terms must be a JSON object.")
		}
		terms = string(raw)
	}

	expiresAt := time.Now().Add(uc.PendingTTL)
	contract := &domain.Contract{
		ID:           settlement.NewID(),
		JobID:        input.JobID,
		ClientID:     actor.UserID,
		FreelancerID: input.FreelancerID,
		AgreedBid:    input.AgreedBid,
		Currency:     strings.ToUpper(input.Currency),
		Terms:        terms,
		ContractText: input.ContractText,
		Status:       domain.ContractPending,
		EscrowStatus: domain.EscrowNotFunded,
		ExpiresAt:    &expiresAt,
	}
	contract.Milestones = buildMilestones(contract, input.Milestones)

	err := uc.uow.Do(ctx, func(repos *domain.Repositories) error {
		job, err := repos.Jobs.GetByID(ctx, input.JobID)
		if err != nil {
			return err
		}
		if job.ClientID != actor.UserID {
			return fmt.Errorf("job %s belongs to another client: %w", job.ID, domain.ErrPermissionDenied)
		}

		verr := &domain.ValidationError{}
		if job.Status != domain.JobInProgress {
			verr.Add("job_id", "Job has no accepted proposal.")
		}
		if job.FreelancerID != input.FreelancerID {
			verr.Add("freelancer_id", "Freelancer is not assigned to this job.")
		}
		if job.Budget > 0 && input.AgreedBid > job.Budget {
			verr.Add("agreed_bid", fmt.Sprintf("Agreed bid cannot exceed the job budget of %d.", job.Budget))
		}
		if _, err := repos.Contracts.GetByJobID(ctx, job.ID); err == nil {
			verr.Add("job_id", "A contract already exists for this job.")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if verr.HasErrors() {
			return verr
		}

		if err := repos.Contracts.Create(ctx, contract); err != nil {
			return err
		}
		if err := repos.Milestones.CreateBatch(ctx, contract.Milestones); err != nil {
			return err
		}
		return settlement.RecordAudit(ctx, repos, contract.ID, domain.AuditContractCreated, actor.UserID, map[string]any{
			"agreed_bid": contract.AgreedBid,
			"currency":   contract.Currency,
			"milestones": len(contract.Milestones),
		})
	})
	if err != nil {
		uc.recordErrorMetrics("create", err)
		return nil, fmt.Errorf("create contract: %w", err)
	}

	uc.Logger.Info("contract created",
		zap.String("contract_id", contract.ID),
		zap.String("job_id", contract.JobID),
		zap.Int64("agreed_bid", contract.AgreedBid),
	)
	uc.recordContractCreatedMetrics(contract)
	uc.publishContractEvent(contract, "contract.created", actor.UserID, contract.AgreedBid)
	return contract, nil
}

func validateCreateInput(input *contractdto.CreateContractInput) *domain.ValidationError {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(input.JobID) == "" {
		verr.Add("job_id", "This field is required.")
	}
	if strings.TrimSpace(input.FreelancerID) == "" {
		verr.Add("freelancer_id", "This field is required.")
	}
	if input.AgreedBid <= 0 {
		verr.Add("agreed_bid", "Ensure this value is greater than 0.")
	}
	if !domain.SupportedCurrencies[strings.ToUpper(input.Currency)] {
		verr.Add("currency", fmt.Sprintf("%q is not a supported currency.", input.Currency))
	}

	var total int64
	for i, m := range input.Milestones {
		if m.Amount <= 0 {
			verr.Add("milestones", fmt.Sprintf("Milestone %d: amount must be greater than 0.", i+1))
		}
		if strings.TrimSpace(m.Title) == "" {
			verr.Add("milestones", fmt.Sprintf("Milestone %d: title is required.", i+1))
		}
		total += m.Amount
	}
	if input.AgreedBid > 0 && total > input.AgreedBid {
		verr.Add("milestones", fmt.Sprintf("Total milestone amount %d exceeds the agreed bid %d.", total, input.AgreedBid))
	}
	return verr
}

// buildMilestones - без явных вех создается одна веха на всю сумму
func buildMilestones(c *domain.Contract, inputs []contractdto.MilestoneInput) []*domain.Milestone {
	if len(inputs) == 0 {
		inputs = []contractdto.MilestoneInput{{Title: lumpSumMilestoneTitle, Amount: c.AgreedBid}}
	}
	milestones := make([]*domain.Milestone, 0, len(inputs))
	for i, in := range inputs {
		milestones = append(milestones, &domain.Milestone{
			ID:          settlement.NewID(),
			ContractID:  c.ID,
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			Amount:      in.Amount,
			DueDate:     in.DueDate,
			Position:    i + 1,
			Status:      domain.MilestonePending,
		})
	}
	return milestones
}
