package repository

import (
	"errors"
	"fmt"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"gorm.io/gorm"
)

// wrapErr переводит ошибки gorm в доменные
func wrapErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
