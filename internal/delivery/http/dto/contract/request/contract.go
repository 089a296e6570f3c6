package request

import (
	"time"

	contractdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/contract"
)

type MilestoneRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount"`
	DueDate     *time.Time `json:"due_date"`
}

func (r MilestoneRequest) ToInput() contractdto.MilestoneInput {
	return contractdto.MilestoneInput{
		Title:       r.Title,
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     r.DueDate,
	}
}

type CreateContractRequest struct {
	JobID        string             `json:"job_id" binding:"required"`
	FreelancerID string             `json:"freelancer_id" binding:"required"`
	AgreedBid    int64              `json:"agreed_bid" binding:"required"`
	Currency     string             `json:"currency" binding:"required"`
	Terms        map[string]any     `json:"terms"`
	ContractText string             `json:"contract_text"`
	Milestones   []MilestoneRequest `json:"milestones"`
}

func (r *CreateContractRequest) ToInput() *contractdto.CreateContractInput {
	input := &contractdto.CreateContractInput{
		JobID:        r.JobID,
		FreelancerID: r.FreelancerID,
		AgreedBid:    r.AgreedBid,
		Currency:     r.Currency,
		Terms:        r.Terms,
		ContractText: r.ContractText,
	}
	for _, m := range r.Milestones {
		input.Milestones = append(input.Milestones, m.ToInput())
	}
	return input
}

type CancelContractRequest struct {
	Reason string `json:"reason"`
}
