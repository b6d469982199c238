package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strideapp/stride-engine/internal/adapters/handler/http/middleware"
	"github.com/strideapp/stride-engine/internal/core/domain"
	"github.com/strideapp/stride-engine/internal/core/services"
)

type CheckinHandler struct {
	svc *services.CheckinService
}

func NewCheckinHandler(svc *services.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		svc: svc,
	}
}

type recordCompletionRequest struct {
	GoalID string `json:"goal_id" binding:"required"`
	Count  int    `json:"count"`
	Date   string `json:"date"`
}

func (h *CheckinHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checkins", h.Record)
}

func (h *CheckinHandler) Record(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	var req recordCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	delta := req.Count
	if delta == 0 {
		delta = 1
	}

	completion, err := h.svc.RecordCompletion(c.Request.Context(), services.RecordCompletionInput{
		OwnerID:       ownerID,
		GoalID:        req.GoalID,
		Delta:         delta,
		DateKey:       req.Date,
		OffsetMinutes: middleware.GetOffsetMinutes(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGoalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, completion)
}
