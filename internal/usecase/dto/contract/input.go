package contractdto

import (
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type MilestoneInput struct {
	Title       string
	Description string
	Amount      int64
	DueDate     *time.Time
}

type CreateContractInput struct {
	JobID        string
	FreelancerID string
	AgreedBid    int64
	Currency     string
	Terms        map[string]any
	ContractText string
	Milestones   []MilestoneInput
}

type ListContractsInput struct {
	Status *domain.ContractStatus
	Page   int
	Limit  int
}
