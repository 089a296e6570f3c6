package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"gorm.io/gorm"
)

// GormUnitOfWork - все репозитории поверх одного *gorm.DB или одной транзакции
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func newRepositories(db *gorm.DB) *domain.Repositories {
	return &domain.Repositories{
		Contracts:  NewDefaultContractRepository(db),
		Milestones: NewDefaultMilestoneRepository(db),
		Escrow:     NewDefaultEscrowRepository(db),
		Wallets:    NewDefaultWalletRepository(db),
		Disputes:   NewDefaultDisputeRepository(db),
		Audit:      NewDefaultAuditRepository(db),
		Jobs:       NewDefaultJobRepository(db),
		Ratings:    NewDefaultRatingRepository(db),
	}
}

func (u *GormUnitOfWork) Repositories() *domain.Repositories {
	return newRepositories(u.db)
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

func (u *GormUnitOfWork) Ping(ctx context.Context) error {
	sqlDB, err := u.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
