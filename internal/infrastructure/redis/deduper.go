package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper - быстрый фильтр повторных вебхуков. Окончательную проверку делает
// статус строки в БД, поэтому недоступный Redis не блокирует обработку
type Deduper struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *goredis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Deduper{rdb: rdb, ttl: ttl, logger: logger}
}

func dedupKey(scope, key string) string {
	return fmt.Sprintf("dedup:%s:%s", scope, key)
}

// AcquireOnce returns true the first time scope+key is seen within the TTL.
func (d *Deduper) AcquireOnce(ctx context.Context, scope, key string) bool {
	if d == nil || d.rdb == nil {
		return true
	}

	ok, err := d.rdb.SetNX(ctx, dedupKey(scope, key), 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("redis dedup check failed, allowing processing",
			zap.String("scope", scope),
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		d.logger.Info("skipped duplicated event",
			zap.String("scope", scope),
			zap.String("key", key),
		)
	}
	return ok
}

// Forget снимает отметку, чтобы событие можно было обработать повторно после ошибки
func (d *Deduper) Forget(ctx context.Context, scope, key string) {
	if d == nil || d.rdb == nil {
		return
	}
	if err := d.rdb.Del(ctx, dedupKey(scope, key)).Err(); err != nil {
		d.logger.Warn("redis dedup forget failed",
			zap.String("scope", scope),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
