package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shareit-hub/service-booking/internal/application"
	"github.com/shareit-hub/service-booking/pkg/middleware"
	"github.com/shareit-hub/service-booking/pkg/response"
)

// ItemHandler serves the booking-aware item views.
type ItemHandler struct {
	service *application.ItemService
	now     func() time.Time
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service, now: time.Now}
}

// RegisterRoutes registers the item read routes.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	items.Use(middleware.SharerIdentityMiddleware())
	{
		items.GET("", h.GetOwnerItems)
		items.GET("/:id", h.GetItem)
	}
}

// GetOwnerItems returns the caller's items with last and next bookings.
func (h *ItemHandler) GetOwnerItems(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetOwnerItems(c.Request.Context(), ownerID, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetItem returns a single item. Bookings are included for its owner only.
func (h *ItemHandler) GetItem(c *gin.Context) {
	viewerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	itemID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.GetItem(c.Request.Context(), viewerID, itemID, h.now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
