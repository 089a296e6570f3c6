package disputedto

import "github.com/LavaJover/freelink-contract-service/internal/domain"

type RaiseDisputeInput struct {
	ContractID  string
	Reason      domain.DisputeReason
	Description string
}

type ResolveDisputeInput struct {
	DisputeID  string
	Resolution domain.DisputeStatus
	Notes      string
}

type ListDisputesInput struct {
	Status *domain.DisputeStatus
	Page   int
	Limit  int
}
