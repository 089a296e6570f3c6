package mappers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
)

func ToDomainContract(model *models.ContractModel) *domain.Contract {
	return &domain.Contract{
		ID:               model.ID,
		JobID:            model.JobID,
		ClientID:         model.ClientID,
		FreelancerID:     model.FreelancerID,
		AgreedBid:        model.AgreedBid,
		Currency:         model.Currency,
		Terms:            model.Terms,
		ContractText:     model.ContractText,
		Status:           domain.ContractStatus(model.Status),
		EscrowStatus:     domain.EscrowStatus(model.EscrowStatus),
		EscrowFunded:     model.EscrowFunded,
		EscrowReleased:   model.EscrowReleased,
		EscrowRefunded:   model.EscrowRefunded,
		PreDisputeStatus: domain.ContractStatus(model.PreDisputeStatus),
		CancelReason:     model.CancelReason,
		ExpiresAt:        model.ExpiresAt,
		CompletedAt:      model.CompletedAt,
		CancelledAt:      model.CancelledAt,
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMContract(contract *domain.Contract) *models.ContractModel {
	terms := contract.Terms
	if terms == "" {
		terms = "{}"
	}
	return &models.ContractModel{
		ID:               contract.ID,
		JobID:            contract.JobID,
		ClientID:         contract.ClientID,
		FreelancerID:     contract.FreelancerID,
		AgreedBid:        contract.AgreedBid,
		Currency:         contract.Currency,
		Terms:            terms,
		ContractText:     contract.ContractText,
		Status:           string(contract.Status),
		EscrowStatus:     string(contract.EscrowStatus),
		EscrowFunded:     contract.EscrowFunded,
		EscrowReleased:   contract.EscrowReleased,
		EscrowRefunded:   contract.EscrowRefunded,
		PreDisputeStatus: string(contract.PreDisputeStatus),
		CancelReason:     contract.CancelReason,
		ExpiresAt:        contract.ExpiresAt,
		CompletedAt:      contract.CompletedAt,
		CancelledAt:      contract.CancelledAt,
		Version:          contract.Version,
		CreatedAt:        contract.CreatedAt,
		UpdatedAt:        contract.UpdatedAt,
	}
}

func ToDomainMilestone(model *models.MilestoneModel) *domain.Milestone {
	return &domain.Milestone{
		ID:          model.ID,
		ContractID:  model.ContractID,
		Title:       model.Title,
		Description: model.Description,
		Amount:      model.Amount,
		DueDate:     model.DueDate,
		Position:    model.Position,
		Status:      domain.MilestoneStatus(model.Status),
		ReleasedAt:  model.ReleasedAt,
		CreatedAt:   model.CreatedAt,
	}
}

func ToGORMMilestone(milestone *domain.Milestone) *models.MilestoneModel {
	return &models.MilestoneModel{
		ID:          milestone.ID,
		ContractID:  milestone.ContractID,
		Title:       milestone.Title,
		Description: milestone.Description,
		Amount:      milestone.Amount,
		DueDate:     milestone.DueDate,
		Position:    milestone.Position,
		Status:      string(milestone.Status),
		ReleasedAt:  milestone.ReleasedAt,
		CreatedAt:   milestone.CreatedAt,
	}
}
