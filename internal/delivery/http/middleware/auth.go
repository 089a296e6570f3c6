package middleware

import (
	"github.com/LavaJover/freelink-contract-service/internal/delivery/http/handlers"
	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/auth"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenParser - проверка bearer токена
type TokenParser interface {
	Parse(token string) (domain.Actor, error)
}

// Auth кладет аутентифицированного пользователя в контекст запроса
func Auth(parser TokenParser, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractBearer(c.GetHeader("Authorization"))
		if token == "" {
			handlers.WriteError(c, log, domain.ErrUnauthenticated)
			return
		}
		actor, err := parser.Parse(token)
		if err != nil {
			logger.FromContext(c.Request.Context(), log).Debug("token rejected", zap.Error(err))
			handlers.WriteError(c, log, err)
			return
		}
		handlers.SetActor(c, actor)

		ctx := c.Request.Context()
		scoped := logger.FromContext(ctx, log).With(zap.String("user_id", actor.UserID))
		c.Request = c.Request.WithContext(logger.WithContext(ctx, scoped))
		c.Next()
	}
}
