package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/strideapp/stride-engine/internal/adapters/handler/http/middleware"
	"github.com/strideapp/stride-engine/internal/core/services"
)

type TimelineHandler struct {
	svc *services.TimelineService
}

func NewTimelineHandler(svc *services.TimelineService) *TimelineHandler {
	return &TimelineHandler{
		svc: svc,
	}
}

func (h *TimelineHandler) RegisterRoutes(router *gin.RouterGroup) {
	timeline := router.Group("/timeline")
	{
		timeline.GET("", h.GetTimeline)
		timeline.GET("/events", h.GetEvents)
	}
}

func (h *TimelineHandler) GetTimeline(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	days := services.DefaultTimelineDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 366 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 366"})
			return
		}
		days = parsed
	}

	timeline, err := h.svc.GetTimeline(c.Request.Context(), ownerID, days, middleware.GetOffsetMinutes(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, timeline)
}

func (h *TimelineHandler) GetEvents(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	page, err := h.svc.GetTimelinePage(c.Request.Context(), ownerID, c.Query("cursor"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, page)
}
