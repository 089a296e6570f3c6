package httpserver

import (
	"github.com/LavaJover/freelink-contract-service/internal/delivery/http/handlers"
	"github.com/LavaJover/freelink-contract-service/internal/delivery/http/middleware"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Contracts *handlers.ContractHandler
	Payments  *handlers.PaymentHandler
	Wallet    *handlers.WalletHandler
	Disputes  *handlers.DisputeHandler
	Ratings   *handlers.RatingHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	Tokens   middleware.TokenParser
	Limiter  middleware.Limiter
	Metrics  *metrics.ContractMetrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	handlers.UseJSONFieldNames()

	r := gin.New()
	r.RedirectTrailingSlash = true
	r.Use(middleware.RequestLog(opts.Logger, opts.Metrics), middleware.Recovery(opts.Logger))

	r.GET("/healthz", h.Health.Healthz)
	r.HEAD("/healthz", h.Health.Healthz)
	r.GET("/readyz", h.Health.Readyz)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	// Public: подпись проверяет сам обработчик
	api.POST("/payments/webhook/", h.Payments.Webhook)

	// Protected
	authed := api.Group("/")
	authed.Use(middleware.Auth(opts.Tokens, opts.Logger), middleware.RateLimit(opts.Limiter, opts.Logger))
	{
		contracts := authed.Group("/contracts/contracts")
		contracts.POST("/", h.Contracts.CreateContract)
		contracts.GET("/", h.Contracts.ListContracts)
		contracts.GET("/user/:user_id/", h.Contracts.ListUserContracts)
		contracts.GET("/:id/", h.Contracts.GetContract)
		contracts.PATCH("/:id/accept/", h.Contracts.AcceptContract)
		contracts.PATCH("/:id/reject/", h.Contracts.RejectContract)
		contracts.PATCH("/:id/submit-work/", h.Contracts.SubmitWork)
		contracts.PATCH("/:id/cancel/", h.Contracts.CancelContract)
		contracts.PATCH("/:id/dispute/", h.Contracts.RaiseDispute)
		contracts.GET("/:id/milestones/", h.Contracts.ListMilestones)
		contracts.POST("/:id/milestones/", h.Contracts.AddMilestone)
		contracts.PATCH("/:id/milestones/:mid/release/", h.Contracts.ReleaseMilestone)
		contracts.GET("/:id/audit/", h.Contracts.GetAuditTrail)
		contracts.GET("/:id/escrow/", h.Contracts.ListEscrowTransactions)

		authed.POST("/payments/deposit/", h.Payments.Deposit)
		authed.GET("/payments/verify/", h.Payments.VerifyDeposit)

		authed.GET("/wallet/", h.Wallet.GetWallet)
		authed.GET("/wallet/transactions/", h.Wallet.ListTransactions)
		authed.POST("/wallet/withdraw/", h.Wallet.Withdraw)

		authed.GET("/disputes/", h.Disputes.ListDisputes)
		authed.POST("/disputes/", h.Disputes.RaiseDispute)
		authed.GET("/disputes/:id/", h.Disputes.GetDispute)
		authed.POST("/disputes/:id/comments/", h.Disputes.AddComment)
		authed.PATCH("/disputes/:id/under-review/", h.Disputes.MarkUnderReview)
		authed.PATCH("/disputes/:id/resolve/", h.Disputes.ResolveDispute)

		authed.POST("/ratings/", h.Ratings.CreateRating)
		authed.GET("/ratings/users/:user_id/", h.Ratings.ListUserRatings)
	}

	return r
}
