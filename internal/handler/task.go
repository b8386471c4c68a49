package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zentrixai8-sys/checklist-sub001/internal/middleware"
	"github.com/zentrixai8-sys/checklist-sub001/internal/model"
	"github.com/zentrixai8-sys/checklist-sub001/internal/service"
	"github.com/zentrixai8-sys/checklist-sub001/internal/sheet"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// List serves GET /tasks?mode=&view=&q=&sort= scoped to the authenticated
// viewer.
func (h *TaskHandler) List(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer.Identity == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	filter := service.TaskFilter{
		Mode:   model.Mode(c.DefaultQuery("mode", string(model.ModeChecklist))),
		View:   c.Query("view"),
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
	}

	response, err := h.taskService.List(c.Request.Context(), viewer, filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh serves POST /cache/refresh: it sweeps the cached sheet payloads so
// the next fetch goes back to the network. Used by the dashboard's manual
// "try again" action.
func (h *TaskHandler) Refresh(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer.Identity == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.taskService.Invalidate(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

// respondTaskError maps service errors onto HTTP statuses: bad query input
// is the caller's fault, upstream feed trouble is a bad gateway.
func respondTaskError(c *gin.Context, err error) {
	var fetchErr *sheet.FetchError

	switch {
	case errors.Is(err, service.ErrInvalidMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be checklist or delegation"})
	case errors.Is(err, service.ErrInvalidView):
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be recent, upcoming or overdue"})
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "sheet fetch failed", "upstream_status": fetchErr.Status})
	case errors.Is(err, sheet.ErrMalformedTable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "sheet returned malformed data"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
	}
}
