package setup

import (
	"github.com/LavaJover/freelink-contract-service/internal/delivery/grpcapi"
	"github.com/LavaJover/freelink-contract-service/internal/delivery/http/handlers"
	"github.com/LavaJover/freelink-contract-service/internal/delivery/http/httpserver"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/auth"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/ratelimit"
	contractUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/contract"
	disputeUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/dispute"
	escrowUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/escrow"
	ratingUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/rating"
	walletUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/wallet"
	"github.com/gin-gonic/gin"
)

type UseCases struct {
	Contracts *contractUsecase.DefaultContractUsecase
	Escrow    *escrowUsecase.DefaultEscrowUsecase
	Wallet    *walletUsecase.DefaultWalletUsecase
	Disputes  *disputeUsecase.DefaultDisputeUsecase
	Ratings   *ratingUsecase.DefaultRatingUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	cfg := deps.Config
	log := deps.Logger

	wallet := walletUsecase.NewDefaultWalletUsecase(deps.UoW, deps.Gateway, deps.Metrics, log.Named("wallet"))

	var deduper escrowUsecase.Deduper
	if deps.Deduper != nil {
		deduper = deps.Deduper
	}

	return &UseCases{
		Contracts: contractUsecase.NewDefaultContractUsecase(
			deps.UoW,
			deps.Publisher,
			deps.Metrics,
			log.Named("contracts"),
			cfg.ContractParams.PendingTTL,
		),
		Escrow: escrowUsecase.NewDefaultEscrowUsecase(
			deps.UoW,
			deps.Gateway,
			deduper,
			wallet,
			deps.Publisher,
			deps.Metrics,
			log.Named("escrow"),
			cfg.PaymentGateway.CallbackURL,
			cfg.Background.StaleDepositBatch,
		),
		Wallet:   wallet,
		Disputes: disputeUsecase.NewDefaultDisputeUsecase(deps.UoW, deps.Publisher, deps.Metrics, log.Named("disputes")),
		Ratings:  ratingUsecase.NewDefaultRatingUsecase(deps.UoW, log.Named("ratings")),
	}
}

// NewHTTPRouter собирает REST API поверх usecase слоя
func NewHTTPRouter(deps *Dependencies, uc *UseCases) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger

	paginator := handlers.Paginator{
		DefaultSize: cfg.ContractParams.PageSize,
		MaxSize:     cfg.ContractParams.MaxPage,
		PublicURL:   cfg.HTTPServer.PublicURL,
	}

	var limiter *ratelimit.MapLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
	}

	opts := httpserver.Options{
		Tokens:   auth.NewTokenParser(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Metrics:  deps.Metrics,
		Gatherer: deps.Registry,
		Logger:   log,
	}
	if limiter != nil {
		opts.Limiter = limiter
	}

	return httpserver.NewRouter(httpserver.Handlers{
		Contracts: handlers.NewContractHandler(uc.Contracts, uc.Escrow, uc.Disputes, paginator, log),
		Payments:  handlers.NewPaymentHandler(uc.Escrow, deps.Gateway, log),
		Wallet:    handlers.NewWalletHandler(uc.Wallet, paginator, log),
		Disputes:  handlers.NewDisputeHandler(uc.Disputes, paginator, log),
		Ratings:   handlers.NewRatingHandler(uc.Ratings, paginator, log),
		Health:    handlers.NewHealthHandler(deps.UoW),
	}, opts)
}

func NewGRPCHealth(deps *Dependencies) *grpcapi.HealthHandler {
	return grpcapi.NewHealthHandler(deps.UoW, deps.Logger.Named("grpc-health"))
}
