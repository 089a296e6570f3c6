package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	uow domain.UnitOfWork
}

func NewHealthHandler(uow domain.UnitOfWork) *HealthHandler {
	return &HealthHandler{uow: uow}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz - готовность определяется доступностью базы
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	if err := h.uow.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_not_ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
