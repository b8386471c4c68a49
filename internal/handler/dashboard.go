package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zentrixai8-sys/checklist-sub001/internal/middleware"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Summary serves GET /dashboard?mode= with the aggregate statistics for the
// authenticated viewer's visible task set.
func (h *DashboardHandler) Summary(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer.Identity == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mode := model.Mode(c.DefaultQuery("mode", string(model.ModeChecklist)))

	summary, err := h.dashboardService.Summary(c.Request.Context(), viewer, mode)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
