package contractdto

import "github.com/LavaJover/freelink-contract-service/internal/domain"

type ContractDetailsOutput struct {
	Contract    *domain.Contract
	RecentAudit []*domain.AuditEntry
}

type ContractListOutput struct {
	Contracts []*domain.Contract
	Total     int64
}
