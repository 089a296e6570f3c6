package middleware

import (
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/delivery/http/handlers"
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Limiter interface {
	Allow(key string, now time.Time) bool
}

// RateLimit - лимит по пользователю, для анонимных запросов по IP
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if actor := handlers.ActorFrom(c); actor.UserID != "" {
			key = "user:" + actor.UserID
		}
		if !limiter.Allow(key, time.Now()) {
			c.Header("Retry-After", "1")
			handlers.WriteError(c, log, domain.ErrThrottled)
			return
		}
		c.Next()
	}
}
