package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zentrixai8-sys/checklist-sub001/internal/cache"
)

type HealthHandler struct {
	store cache.Store
}

func NewHealthHandler(store cache.Store) *HealthHandler {
	if store == nil {
		log.Println("Warning: HealthHandler created with nil cache store")
	}
	return &HealthHandler{
		store: store,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"cache":  "unavailable",
		})
		return
	}

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("Cache health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"cache":  "unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache":  "ok",
	})
}
