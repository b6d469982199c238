package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strideapp/stride-engine/internal/adapters/handler/http/middleware"
	"github.com/strideapp/stride-engine/internal/core/domain"
	"github.com/strideapp/stride-engine/internal/core/services"
)

type GoalHandler struct {
	svc *services.GoalService
}

func NewGoalHandler(svc *services.GoalService) *GoalHandler {
	return &GoalHandler{
		svc: svc,
	}
}

type createGoalRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	TargetPerDay int    `json:"target_per_day"`
}

type updateGoalRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	TargetPerDay *int    `json:"target_per_day"`
}

type updateTargetRequest struct {
	TargetPerDay int `json:"target_per_day" binding:"required"`
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.POST("", h.Create)
		goals.GET("", h.List)
		goals.GET("/dashboard", h.Dashboard)
		goals.GET("/:id/stats", h.Stats)
		goals.PUT("/:id", h.Update)
		goals.PUT("/:id/target", h.UpdateTarget)
		goals.DELETE("/:id", h.Delete)
	}
}

func (h *GoalHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.svc.Create(c.Request.Context(), services.CreateGoalInput{
		OwnerID:       ownerID,
		Title:         req.Title,
		Description:   req.Description,
		Icon:          req.Icon,
		Color:         req.Color,
		TargetPerDay:  req.TargetPerDay,
		OffsetMinutes: middleware.GetOffsetMinutes(c),
	})
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, goal)
}

func (h *GoalHandler) List(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	list, err := h.svc.List(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *GoalHandler) Dashboard(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	stats, err := h.svc.Dashboard(c.Request.Context(), ownerID, middleware.GetOffsetMinutes(c), services.DefaultDashboardDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *GoalHandler) Stats(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	stats, err := h.svc.GetWithStats(c.Request.Context(), ownerID, c.Param("id"), middleware.GetOffsetMinutes(c), services.DefaultDashboardDays)
	if err != nil {
		if errors.Is(err, domain.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *GoalHandler) Update(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.svc.Update(c.Request.Context(), services.UpdateGoalInput{
		OwnerID:      ownerID,
		ID:           c.Param("id"),
		Title:        req.Title,
		Description:  req.Description,
		Icon:         req.Icon,
		Color:        req.Color,
		TargetPerDay: req.TargetPerDay,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGoalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrDailyTargetInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) UpdateTarget(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	var req updateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.UpdateTarget(c.Request.Context(), ownerID, c.Param("id"), req.TargetPerDay)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGoalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrDailyTargetInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.Status(http.StatusOK)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), ownerID, c.Param("id"), middleware.GetOffsetMinutes(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
