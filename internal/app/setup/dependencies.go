package setup

import (
	"context"
	"fmt"
	"net"

	"github.com/LavaJover/freelink-contract-service/internal/config"
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	publisher "github.com/LavaJover/freelink-contract-service/internal/infrastructure/kafka"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/memstore"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/metrics"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/migrate"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/paystack"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config    *config.ContractConfig
	Logger    *zap.Logger
	DB        *gorm.DB
	UoW       domain.UnitOfWork
	Gateway   *paystack.Client
	Redis     *goredis.Client
	Deduper   *redis.Deduper
	Kafka     *publisher.DefaultKafkaPublisher
	Publisher domain.EventPublisher
	Registry  *prometheus.Registry
	Metrics   *metrics.ContractMetrics
}

func InitializeDependencies(ctx context.Context, cfg *config.ContractConfig, log *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: log}

	switch cfg.ContractDB.Driver {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		deps.UoW = memstore.New()
	case "postgres":
		db := postgres.MustInitDB(cfg)
		if err := migrateSchema(db, cfg.ContractDB.MigrationsPath, log); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		deps.DB = db
		deps.UoW = repository.NewGormUnitOfWork(db)
	default:
		return nil, fmt.Errorf("unknown contract_db.driver %q", cfg.ContractDB.Driver)
	}

	deps.Gateway = paystack.NewClient(cfg.PaymentGateway.BaseURL, cfg.PaymentGateway.SecretKey, cfg.PaymentGateway.Timeout)

	if cfg.RedisService.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisService)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		deps.Redis = rdb
		deps.Deduper = redis.NewDeduper(rdb, cfg.RedisService.DedupTTL, log.Named("dedup"))
	} else {
		log.Info("redis is not configured, webhook dedup relies on database state")
	}

	if cfg.KafkaService.Enabled() {
		brokers := []string{net.JoinHostPort(cfg.KafkaService.Host, cfg.KafkaService.Port)}
		deps.Kafka = publisher.NewDefaultKafkaPublisher(brokers, log.Named("kafka"))
		deps.Publisher = publisher.NewEventPublisher(deps.Kafka, cfg.KafkaService.ContractTopic, cfg.KafkaService.DisputeTopic)
	} else {
		log.Info("kafka is not configured, domain events are not published")
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.NewContractMetrics(deps.Registry)

	return deps, nil
}

// migrateSchema - SQL миграции, если задан путь, иначе AutoMigrate моделей
func migrateSchema(db *gorm.DB, path string, log *zap.Logger) error {
	if path != "" {
		return migrate.RunMigrations(db, path, log)
	}
	log.Warn("contract_db.migrations_path is empty, falling back to gorm AutoMigrate")
	return postgres.AutoMigrate(db)
}

// Close освобождает внешние соединения
func (d *Dependencies) Close() {
	if d.Kafka != nil {
		if err := d.Kafka.Close(); err != nil {
			d.Logger.Warn("kafka writer close failed", zap.Error(err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
