package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/app/background"
	"github.com/LavaJover/freelink-contract-service/internal/app/setup"
	"github.com/LavaJover/freelink-contract-service/internal/config"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zlog, err := logger.NewLogger(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog = zlog.With(zap.String("service", "contract-service"), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to init dependencies", zap.Error(err))
	}
	defer deps.Close()

	uc := setup.InitializeUseCases(deps)

	// Фоновые задачи
	tasks := background.NewBackgroundTasks(uc.Contracts, uc.Escrow, cfg.Background, zlog.Named("background"))
	if err := tasks.StartAll(ctx); err != nil {
		zlog.Fatal("failed to start background tasks", zap.Error(err))
	}

	// gRPC health
	grpcServer := grpc.NewServer()
	health := setup.NewGRPCHealth(deps)
	health.Register(grpcServer)
	go health.Run(ctx, 10*time.Second)

	grpcAddr := net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		zlog.Fatal("failed to listen", zap.String("addr", grpcAddr), zap.Error(err))
	}
	go func() {
		zlog.Info("gRPC server started", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			zlog.Error("gRPC server stopped", zap.Error(err))
			stop()
		}
	}()

	// HTTP API
	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      setup.NewHTTPRouter(deps, uc),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		zlog.Info("HTTP server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	zlog.Info("service stopped")
}
