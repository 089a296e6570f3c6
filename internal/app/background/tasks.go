package background

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ContractExpirer - истечение неподтвержденных контрактов
type ContractExpirer interface {
	ExpirePendingContracts(ctx context.Context) (int, error)
}

// DepositReconciler - сверка зависших депозитов со шлюзом
type DepositReconciler interface {
	ReconcileStaleDeposits(ctx context.Context, olderThan time.Duration) (int, error)
}

type BackgroundTasks struct {
	Contracts ContractExpirer
	Deposits  DepositReconciler
	cfg       config.Background
	logger    *zap.Logger
	cron      *cron.Cron
}

func NewBackgroundTasks(contracts ContractExpirer, deposits DepositReconciler, cfg config.Background, logger *zap.Logger) *BackgroundTasks {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &BackgroundTasks{
		Contracts: contracts,
		Deposits:  deposits,
		cfg:       cfg,
		logger:    logger,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// StartAll регистрирует задачи и запускает планировщик. Остановка по отмене ctx
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	if _, err := bt.cron.AddFunc(bt.cfg.ExpireContractsSpec, func() { bt.expireContracts(ctx) }); err != nil {
		return fmt.Errorf("schedule contract expiry %q: %w", bt.cfg.ExpireContractsSpec, err)
	}
	if _, err := bt.cron.AddFunc(bt.cfg.StaleDepositsSpec, func() { bt.reconcileDeposits(ctx) }); err != nil {
		return fmt.Errorf("schedule deposit sweep %q: %w", bt.cfg.StaleDepositsSpec, err)
	}
	bt.cron.Start()

	go func() {
		<-ctx.Done()
		<-bt.cron.Stop().Done()
		bt.logger.Info("background tasks stopped")
	}()
	return nil
}

func (bt *BackgroundTasks) expireContracts(ctx context.Context) {
	expired, err := bt.Contracts.ExpirePendingContracts(ctx)
	if err != nil {
		bt.logger.Error("contract expiry failed", zap.Int("expired", expired), zap.Error(err))
		return
	}
	if expired > 0 {
		bt.logger.Info("pending contracts expired", zap.Int("expired", expired))
	}
}

func (bt *BackgroundTasks) reconcileDeposits(ctx context.Context) {
	checked, err := bt.Deposits.ReconcileStaleDeposits(ctx, bt.cfg.StaleDepositAge)
	if err != nil {
		bt.logger.Error("stale deposit sweep failed", zap.Int("checked", checked), zap.Error(err))
		return
	}
	if checked > 0 {
		bt.logger.Info("stale deposits verified", zap.Int("checked", checked))
	}
}

// cronLogger пишет логи планировщика в zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
