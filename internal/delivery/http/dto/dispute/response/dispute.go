package response

import (
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
)

type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type DisputeResponse struct {
	ID              string            `json:"id"`
	ContractID      string            `json:"contract_id"`
	RaisedBy        string            `json:"raised_by"`
	Reason          string            `json:"reason"`
	Description     string            `json:"description"`
	Status          string            `json:"status"`
	ResolutionNotes string            `json:"resolution_notes,omitempty"`
	ResolvedBy      string            `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time        `json:"resolved_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Comments        []CommentResponse `json:"comments,omitempty"`
}

func FromComment(c *domain.DisputeComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func FromDispute(d *domain.Dispute) DisputeResponse {
	resp := DisputeResponse{
		ID:              d.ID,
		ContractID:      d.ContractID,
		RaisedBy:        d.RaisedBy,
		Reason:          string(d.Reason),
		Description:     d.Description,
		Status:          string(d.Status),
		ResolutionNotes: d.ResolutionNotes,
		ResolvedBy:      d.ResolvedBy,
		ResolvedAt:      d.ResolvedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for _, c := range d.Comments {
		resp.Comments = append(resp.Comments, FromComment(c))
	}
	return resp
}

func FromDisputes(disputes []*domain.Dispute) []DisputeResponse {
	out := make([]DisputeResponse, 0, len(disputes))
	for _, d := range disputes {
		out = append(out, FromDispute(d))
	}
	return out
}
