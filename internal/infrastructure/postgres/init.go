package postgres

import (
	"log"

	"github.com/LavaJover/freelink-contract-service/internal/config"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models - все таблицы сервиса, в порядке создания
var Models = []interface{}{
	&models.JobModel{},
	&models.ContractModel{},
	&models.MilestoneModel{},
	&models.EscrowTransactionModel{},
	&models.WalletModel{},
	&models.WalletTransactionModel{},
	&models.WithdrawalModel{},
	&models.DisputeModel{},
	&models.DisputeCommentModel{},
	&models.AuditEntryModel{},
	&models.RatingModel{},
}

func MustInitDB(cfg *config.ContractConfig) *gorm.DB {
	dsn := cfg.ContractDB.Dsn
	gormCfg := &gorm.Config{}
	if cfg.Env != "local" {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	return db
}

// AutoMigrate используется, когда путь к SQL миграциям не задан
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
