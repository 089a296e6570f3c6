package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DetailResponse struct {
	Detail string `json:"detail"`
}

// WriteError переводит ошибки домена в HTTP ответ. 400 - ошибки по полям, остальное - {"detail": ...}
func WriteError(c *gin.Context, fallback *zap.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		paymentErr    *domain.PaymentError
	)
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, validationErr.Fields)
	case errors.Is(err, domain.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, DetailResponse{Detail: "Authentication credentials were not provided."})
	case errors.As(err, &paymentErr):
		logger.FromContext(c.Request.Context(), fallback).Warn("payment gateway error", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, DetailResponse{Detail: paymentErr.Message})
	case errors.Is(err, domain.ErrPermissionDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, DetailResponse{Detail: "You do not have permission to perform this action."})
	case errors.Is(err, domain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, DetailResponse{Detail: "Not found."})
	case errors.Is(err, domain.ErrInvalidState):
		c.AbortWithStatusJSON(http.StatusConflict, DetailResponse{Detail: err.Error()})
	case errors.Is(err, domain.ErrThrottled):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, DetailResponse{Detail: "Request was throttled."})
	default:
		logger.FromContext(c.Request.Context(), fallback).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, DetailResponse{Detail: "A server error occurred."})
	}
}
