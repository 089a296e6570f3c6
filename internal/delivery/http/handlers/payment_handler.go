package handlers

import (
	"io"
	"net/http"
	"strings"

	contractResponse "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/contract/response"
	paymentRequest "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/payment/request"
	paymentResponse "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/payment/response"
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/logger"
	escrowdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/escrow"
	escrowUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/escrow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	maxWebhookBody       = 1 << 20
)

// WebhookVerifier проверяет подпись вебхука и разбирает событие шлюза
type WebhookVerifier interface {
	VerifySignature(body []byte, signature string) bool
	ParseWebhook(body []byte) (*domain.GatewayEvent, error)
	SignatureHeader() string
}

type PaymentHandler struct {
	uc       escrowUsecase.EscrowUsecase
	verifier WebhookVerifier
	logger   *zap.Logger
}

func NewPaymentHandler(uc escrowUsecase.EscrowUsecase, verifier WebhookVerifier, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, verifier: verifier, logger: logger}
}

// Deposit handles POST /api/payments/deposit/
func (h *PaymentHandler) Deposit(c *gin.Context) {
	var req paymentRequest.DepositRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	out, err := h.uc.DepositEscrow(c.Request.Context(), ActorFrom(c), &escrowdto.DepositInput{
		ContractID:     req.ContractID,
		Amount:         req.Amount,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, paymentResponse.FromDeposit(out.Transaction))
}

// VerifyDeposit handles GET /api/payments/verify/?reference=
func (h *PaymentHandler) VerifyDeposit(c *gin.Context) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		WriteError(c, h.logger, domain.NewValidationError("reference", "This field is required."))
		return
	}
	tx, err := h.uc.VerifyDeposit(c.Request.Context(), ActorFrom(c), reference)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contractResponse.FromEscrowTransaction(tx))
}

// Webhook handles POST /api/payments/webhook/. Подписанные события всегда подтверждаются 200,
// иначе шлюз будет повторять доставку; повторы отсекает сверка
func (h *PaymentHandler) Webhook(c *gin.Context) {
	log := logger.FromContext(c.Request.Context(), h.logger)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		WriteError(c, h.logger, domain.NewValidationError(domain.NonFieldErrors, "Unable to read request body."))
		return
	}
	if !h.verifier.VerifySignature(body, c.GetHeader(h.verifier.SignatureHeader())) {
		log.Warn("webhook signature rejected", zap.String("remote_ip", c.ClientIP()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, DetailResponse{Detail: "Invalid signature."})
		return
	}

	event, err := h.verifier.ParseWebhook(body)
	if err != nil {
		log.Warn("malformed webhook payload", zap.Error(err))
		c.JSON(http.StatusOK, paymentResponse.WebhookAck{Status: "ignored"})
		return
	}

	if err := h.uc.ReconcileGatewayEvent(c.Request.Context(), event); err != nil {
		// 5xx заставит шлюз повторить доставку
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponse.WebhookAck{Status: "ok"})
}
