package disputedto

import "github.com/LavaJover/freelink-contract-service/internal/domain"

type DisputeListOutput struct {
	Disputes []*domain.Dispute
	Total    int64
}
