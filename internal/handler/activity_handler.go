package handler

import (
	"net/http"
	"time"

	"backoffice/internal/middleware"
	"backoffice/internal/permission"
	"backoffice/internal/repository"
	"backoffice/internal/service"
	"backoffice/internal/websocket"
	"backoffice/pkg/pagination"
	"backoffice/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ActivityHandler struct {
	activityService service.ActivityService
	hub             *websocket.Hub
}

func NewActivityHandler(activityService service.ActivityService, hub *websocket.Hub) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, hub: hub}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	logs := router.Group("/api/activity-logs")
	logs.Use(auth.Authenticate())
	{
		logs.GET("", auth.RequirePermission(permission.ActivityLogsRead), h.ListLogs)
		logs.GET("/stats", auth.RequirePermission(permission.ActivityLogsRead), h.Stats)
		logs.DELETE("/:id", auth.RequirePermission(permission.ActivityLogsDelete), h.DeleteLog)
	}

	ws := router.Group("/ws")
	ws.Use(auth.Authenticate(), auth.RequirePermission(permission.ActivityLogsRead))
	{
		ws.GET("/activity", h.ActivityFeed)
	}
}

// ListLogs godoc
// @Summary List activity log entries, newest first
// @Tags activity-logs
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param event query string false "Filter by event kind"
// @Param subject_type query string false "Filter by subject type"
// @Param subject_id query string false "Filter by subject ID"
// @Param user_id query string false "Filter by causer ID"
// @Success 200 {object} response.ListResponse{data=[]service.ActivityLogResponse}
// @Router /api/activity-logs [get]
func (h *ActivityHandler) ListLogs(c *gin.Context) {
	p := pagination.Parse(c)

	filter := repository.ActivityFilter{
		Event:       c.Query("event"),
		SubjectType: c.Query("subject_type"),
	}
	if raw := c.Query("subject_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid subject_id"))
			return
		}
		filter.SubjectID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid user_id"))
			return
		}
		filter.UserID = &id
	}

	logs, total, err := h.activityService.List(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, logs, p.Page, p.Limit, total))
}

// Stats godoc
// @Summary Count activity entries per event kind over a window
// @Tags activity-logs
// @Produce json
// @Param from query string false "Window start (RFC 3339)"
// @Param to query string false "Window end (RFC 3339)"
// @Success 200 {object} response.Response{data=service.ActivityStats}
// @Router /api/activity-logs/stats [get]
func (h *ActivityHandler) Stats(c *gin.Context) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid from timestamp, expected RFC 3339"))
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid to timestamp, expected RFC 3339"))
			return
		}
		to = t
	}

	stats, err := h.activityService.Stats(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// DeleteLog godoc
// @Summary Delete a single activity log entry
// @Tags activity-logs
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/activity-logs/{id} [delete]
func (h *ActivityHandler) DeleteLog(c *gin.Context) {
	if err := h.activityService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Activity log entry deleted successfully"}))
}

// ActivityFeed upgrades the connection and streams new activity entries.
func (h *ActivityHandler) ActivityFeed(c *gin.Context) {
	websocket.ServeWs(h.hub, c.Writer, c.Request)
}
