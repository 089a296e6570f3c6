package mappers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	return &domain.Dispute{
		ID:              model.ID,
		ContractID:      model.ContractID,
		RaisedBy:        model.RaisedBy,
		Reason:          domain.DisputeReason(model.Reason),
		Description:     model.Description,
		Status:          domain.DisputeStatus(model.Status),
		ResolutionNotes: model.ResolutionNotes,
		ResolvedBy:      model.ResolvedBy,
		ResolvedAt:      model.ResolvedAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:              dispute.ID,
		ContractID:      dispute.ContractID,
		RaisedBy:        dispute.RaisedBy,
		Reason:          string(dispute.Reason),
		Description:     dispute.Description,
		Status:          string(dispute.Status),
		ResolutionNotes: dispute.ResolutionNotes,
		ResolvedBy:      dispute.ResolvedBy,
		ResolvedAt:      dispute.ResolvedAt,
		CreatedAt:       dispute.CreatedAt,
		UpdatedAt:       dispute.UpdatedAt,
	}
}

func ToDomainDisputeComment(model *models.DisputeCommentModel) *domain.DisputeComment {
	return &domain.DisputeComment{
		ID:        model.ID,
		DisputeID: model.DisputeID,
		AuthorID:  model.AuthorID,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}
}

func ToGORMDisputeComment(comment *domain.DisputeComment) *models.DisputeCommentModel {
	return &models.DisputeCommentModel{
		ID:        comment.ID,
		DisputeID: comment.DisputeID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
