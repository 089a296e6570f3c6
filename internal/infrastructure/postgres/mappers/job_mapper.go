package mappers

import (
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
)

func ToDomainJob(model *models.JobModel) *domain.Job {
	job := &domain.Job{
		ID:       model.ID,
		ClientID: model.ClientID,
		Title:    model.Title,
		Budget:   model.Budget,
		Currency: model.Currency,
		Status:   domain.JobStatus(model.Status),
	}
	if model.FreelancerID != nil {
		job.FreelancerID = *model.FreelancerID
	}
	return job
}
