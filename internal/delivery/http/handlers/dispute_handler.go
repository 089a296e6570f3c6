package handlers

import (
	"net/http"

	disputeRequest "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/dispute/request"
	disputeResponse "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/dispute/response"
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	disputeUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/dispute"
	disputedto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/dispute"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DisputeHandler struct {
	uc        disputeUsecase.DisputeUsecase
	paginator Paginator
	logger    *zap.Logger
}

func NewDisputeHandler(uc disputeUsecase.DisputeUsecase, paginator Paginator, logger *zap.Logger) *DisputeHandler {
	return &DisputeHandler{uc: uc, paginator: paginator, logger: logger}
}

// ListDisputes handles GET /api/disputes/
func (h *DisputeHandler) ListDisputes(c *gin.Context) {
	params, err := h.paginator.Parse(c)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	input := &disputedto.ListDisputesInput{Page: params.Page, Limit: params.Size}
	if raw := c.Query("status"); raw != "" {
		status := domain.DisputeStatus(raw)
		input.Status = &status
	}
	out, err := h.uc.ListDisputes(c.Request.Context(), ActorFrom(c), input)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NewListResponse(c, h.paginator, params, out.Total, disputeResponse.FromDisputes(out.Disputes)))
}

// RaiseDispute handles POST /api/disputes/
func (h *DisputeHandler) RaiseDispute(c *gin.Context) {
	var req disputeRequest.RaiseDisputeRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	if req.ContractID == "" {
		WriteError(c, h.logger, domain.NewValidationError("contract_id", "This field is required."))
		return
	}
	d, err := h.uc.RaiseDispute(c.Request.Context(), ActorFrom(c), &disputedto.RaiseDisputeInput{
		ContractID:  req.ContractID,
		Reason:      domain.DisputeReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, disputeResponse.FromDispute(d))
}

// GetDispute handles GET /api/disputes/:id/
func (h *DisputeHandler) GetDispute(c *gin.Context) {
	d, err := h.uc.GetDispute(c.Request.Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, disputeResponse.FromDispute(d))
}

// AddComment handles POST /api/disputes/:id/comments/
func (h *DisputeHandler) AddComment(c *gin.Context) {
	var req disputeRequest.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	comment, err := h.uc.AddComment(c.Request.Context(), ActorFrom(c), c.Param("id"), req.Content)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, disputeResponse.FromComment(comment))
}

// MarkUnderReview handles PATCH /api/disputes/:id/under-review/
func (h *DisputeHandler) MarkUnderReview(c *gin.Context) {
	d, err := h.uc.MarkUnderReview(c.Request.Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, disputeResponse.FromDispute(d))
}

// ResolveDispute handles PATCH /api/disputes/:id/resolve/
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	var req disputeRequest.ResolveDisputeRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	d, err := h.uc.ResolveDispute(c.Request.Context(), ActorFrom(c), &disputedto.ResolveDisputeInput{
		DisputeID:  c.Param("id"),
		Resolution: domain.DisputeStatus(req.Resolution),
		Notes:      req.ResolutionNotes,
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, disputeResponse.FromDispute(d))
}
