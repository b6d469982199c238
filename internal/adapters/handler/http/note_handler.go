package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strideapp/stride-engine/internal/adapters/handler/http/middleware"
	"github.com/strideapp/stride-engine/internal/core/domain"
	"github.com/strideapp/stride-engine/internal/core/services"
)

type NoteHandler struct {
	svc *services.NoteService
}

func NewNoteHandler(svc *services.NoteService) *NoteHandler {
	return &NoteHandler{
		svc: svc,
	}
}

type createNoteRequest struct {
	Content string `json:"content" binding:"required"`
	Date    string `json:"date"`
}

func (h *NoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	notes := router.Group("/notes")
	{
		notes.POST("", h.Create)
		notes.DELETE("/:id", h.Delete)
	}
}

func (h *NoteHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.svc.Create(c.Request.Context(), services.CreateNoteInput{
		OwnerID:       ownerID,
		Content:       req.Content,
		DateKey:       req.Date,
		OffsetMinutes: middleware.GetOffsetMinutes(c),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrContentRequired),
			errors.Is(err, domain.ErrContentTooLong),
			errors.Is(err, domain.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "owner context missing"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
