package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shareit-hub/service-booking/internal/application"
	"github.com/shareit-hub/service-booking/pkg/middleware"
	"github.com/shareit-hub/service-booking/pkg/response"
)

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin booking routes, open to adminIDs only.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, adminIDs []int64) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.SharerIdentityMiddleware(), middleware.RequireAdmin(adminIDs))
	{
		admin.GET("/stats/bookings", h.BookingStats)
	}
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
