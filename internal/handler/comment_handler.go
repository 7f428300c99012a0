package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shareit-hub/service-booking/internal/application"
	"github.com/shareit-hub/service-booking/pkg/middleware"
	"github.com/shareit-hub/service-booking/pkg/response"
)

// CommentHandler handles HTTP requests for item comments.
type CommentHandler struct {
	service *application.CommentService
	now     func() time.Time
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *application.CommentService) *CommentHandler {
	return &CommentHandler{service: service, now: time.Now}
}

// RegisterRoutes registers all comment routes.
func (h *CommentHandler) RegisterRoutes(r *gin.RouterGroup) {
	comments := r.Group("/items")
	comments.Use(middleware.SharerIdentityMiddleware())
	{
		comments.POST("/:id/comment", h.AddComment)
	}
}

// AddComment handles POST /items/:id/comment.
func (h *CommentHandler) AddComment(c *gin.Context) {
	authorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	itemID, ok := pathID(c)
	if !ok {
		return
	}

	var req application.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), authorID, itemID, req, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
