package handlers

import (
	"net/http"

	walletRequest "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/wallet/request"
	walletResponse "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/wallet/response"
	walletdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/wallet"
	walletUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/wallet"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WalletHandler struct {
	uc        walletUsecase.WalletUsecase
	paginator Paginator
	logger    *zap.Logger
}

func NewWalletHandler(uc walletUsecase.WalletUsecase, paginator Paginator, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{uc: uc, paginator: paginator, logger: logger}
}

// GetWallet handles GET /api/wallet/
func (h *WalletHandler) GetWallet(c *gin.Context) {
	actor := ActorFrom(c)
	wallets, err := h.uc.GetWallet(c.Request.Context(), actor)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, walletResponse.FromWallets(actor.UserID, wallets))
}

// ListTransactions handles GET /api/wallet/transactions/
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	params, err := h.paginator.Parse(c)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	out, err := h.uc.ListWalletTransactions(c.Request.Context(), ActorFrom(c), params.Page, params.Size)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NewListResponse(c, h.paginator, params, out.Total, walletResponse.FromTransactions(out.Transactions)))
}

// Withdraw handles POST /api/wallet/withdraw/
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req walletRequest.WithdrawRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	w, err := h.uc.RequestWithdrawal(c.Request.Context(), ActorFrom(c), &walletdto.WithdrawalInput{
		Amount:        req.Amount,
		Currency:      req.Currency,
		RecipientCode: req.RecipientCode,
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, walletResponse.FromWithdrawal(w))
}
