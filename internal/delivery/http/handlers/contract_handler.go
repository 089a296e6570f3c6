package handlers

import (
	"net/http"

	contractRequest "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/contract/request"
	contractResponse "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/contract/response"
	disputeRequest "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/dispute/request"
	disputeResponse "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/dispute/response"
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	contractUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/contract"
	disputeUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/dispute"
	contractdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/contract"
	disputedto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/dispute"
	escrowUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/escrow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContractHandler struct {
	uc        contractUsecase.ContractUsecase
	escrowUc  escrowUsecase.EscrowUsecase
	disputeUc disputeUsecase.DisputeUsecase
	paginator Paginator
	logger    *zap.Logger
}

func NewContractHandler(
	uc contractUsecase.ContractUsecase,
	escrowUc escrowUsecase.EscrowUsecase,
	disputeUc disputeUsecase.DisputeUsecase,
	paginator Paginator,
	logger *zap.Logger,
) *ContractHandler {
	return &ContractHandler{
		uc:        uc,
		escrowUc:  escrowUc,
		disputeUc: disputeUc,
		paginator: paginator,
		logger:    logger,
	}
}

// CreateContract handles POST /api/contracts/contracts/
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req contractRequest.CreateContractRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	contract, err := h.uc.CreateContract(c.Request.Context(), ActorFrom(c), req.ToInput())
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, contractResponse.FromContract(contract))
}

// ListContracts handles GET /api/contracts/contracts/
func (h *ContractHandler) ListContracts(c *gin.Context) {
	params, err := h.paginator.Parse(c)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	out, err := h.uc.ListContracts(c.Request.Context(), ActorFrom(c), h.listInput(c, params))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NewListResponse(c, h.paginator, params, out.Total, contractResponse.FromContracts(out.Contracts)))
}

// ListUserContracts handles GET /api/contracts/contracts/user/:user_id/
func (h *ContractHandler) ListUserContracts(c *gin.Context) {
	params, err := h.paginator.Parse(c)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	out, err := h.uc.ListUserContracts(c.Request.Context(), ActorFrom(c), c.Param("user_id"), h.listInput(c, params))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NewListResponse(c, h.paginator, params, out.Total, contractResponse.FromContracts(out.Contracts)))
}

func (h *ContractHandler) listInput(c *gin.Context, params PageParams) *contractdto.ListContractsInput {
	input := &contractdto.ListContractsInput{Page: params.Page, Limit: params.Size}
	if raw := c.Query("status"); raw != "" {
		status := domain.ContractStatus(raw)
		input.Status = &status
	}
	return input
}

// GetContract handles GET /api/contracts/contracts/:id/
func (h *ContractHandler) GetContract(c *gin.Context) {
	out, err := h.uc.GetContract(c.Request.Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	resp := contractResponse.FromContract(out.Contract)
	resp.RecentAudit = contractResponse.FromAuditEntries(out.RecentAudit)
	c.JSON(http.StatusOK, resp)
}

func (h *ContractHandler) respond(c *gin.Context, contract *domain.Contract, err error) {
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse.FromContract(contract))
}

// AcceptContract handles PATCH /api/contracts/contracts/:id/accept/
func (h *ContractHandler) AcceptContract(c *gin.Context) {
	contract, err := h.uc.AcceptContract(c.Request.Context(), ActorFrom(c), c.Param("id"))
	h.respond(c, contract, err)
}

// RejectContract handles PATCH /api/contracts/contracts/:id/reject/
func (h *ContractHandler) RejectContract(c *gin.Context) {
	contract, err := h.uc.RejectContract(c.Request.Context(), ActorFrom(c), c.Param("id"))
	h.respond(c, contract, err)
}

// SubmitWork handles PATCH /api/contracts/contracts/:id/submit-work/
func (h *ContractHandler) SubmitWork(c *gin.Context) {
	contract, err := h.uc.SubmitWork(c.Request.Context(), ActorFrom(c), c.Param("id"))
	h.respond(c, contract, err)
}

// CancelContract handles PATCH /api/contracts/contracts/:id/cancel/
func (h *ContractHandler) CancelContract(c *gin.Context) {
	var req contractRequest.CancelContractRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			WriteError(c, h.logger, err)
			return
		}
	}
	contract, err := h.uc.CancelContract(c.Request.Context(), ActorFrom(c), c.Param("id"), req.Reason)
	h.respond(c, contract, err)
}

// RaiseDispute handles PATCH /api/contracts/contracts/:id/dispute/
func (h *ContractHandler) RaiseDispute(c *gin.Context) {
	var req disputeRequest.RaiseDisputeRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	d, err := h.disputeUc.RaiseDispute(c.Request.Context(), ActorFrom(c), &disputedto.RaiseDisputeInput{
		ContractID:  c.Param("id"),
		Reason:      domain.DisputeReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, disputeResponse.FromDispute(d))
}

// ListMilestones handles GET /api/contracts/contracts/:id/milestones/
func (h *ContractHandler) ListMilestones(c *gin.Context) {
	milestones, err := h.uc.ListMilestones(c.Request.Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse.FromMilestones(milestones))
}

// AddMilestone handles POST /api/contracts/contracts/:id/milestones/
func (h *ContractHandler) AddMilestone(c *gin.Context) {
	var req contractRequest.MilestoneRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	input := req.ToInput()
	m, err := h.uc.AddMilestone(c.Request.Context(), ActorFrom(c), c.Param("id"), &input)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, contractResponse.FromMilestone(m))
}

// ReleaseMilestone handles PATCH /api/contracts/contracts/:id/milestones/:mid/release/
func (h *ContractHandler) ReleaseMilestone(c *gin.Context) {
	contract, err := h.uc.ReleaseMilestone(c.Request.Context(), ActorFrom(c), c.Param("id"), c.Param("mid"))
	h.respond(c, contract, err)
}

// GetAuditTrail handles GET /api/contracts/contracts/:id/audit/
func (h *ContractHandler) GetAuditTrail(c *gin.Context) {
	entries, err := h.uc.GetAuditTrail(c.Request.Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse.FromAuditEntries(entries))
}

// ListEscrowTransactions handles GET /api/contracts/contracts/:id/escrow/
func (h *ContractHandler) ListEscrowTransactions(c *gin.Context) {
	txs, err := h.escrowUc.ListEscrowTransactions(c.Request.Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse.FromEscrowTransactions(txs))
}
