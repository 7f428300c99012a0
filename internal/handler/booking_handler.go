package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shareit-hub/service-booking/internal/application"
	bookingDomain "github.com/shareit-hub/service-booking/internal/domain/booking"
	"github.com/shareit-hub/service-booking/pkg/middleware"
	"github.com/shareit-hub/service-booking/pkg/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
	queries *application.BookingQueryService
	now     func() time.Time
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, queries *application.BookingQueryService) *BookingHandler {
	return &BookingHandler{service: service, queries: queries, now: time.Now}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.SharerIdentityMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.UpdateStatus)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateStatus handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	raw, present := c.GetQuery("approved")
	if !present {
		response.BadRequest(c, "approved query parameter is required")
		return
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	id, err := h.service.DeleteBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, id)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookings handles GET /bookings: bookings made by the caller.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	h.list(c, bookingDomain.RoleBooker)
}

// ListOwnerBookings handles GET /bookings/owner: bookings of the caller's items.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	h.list(c, bookingDomain.RoleOwner)
}

func (h *BookingHandler) list(c *gin.Context, role bookingDomain.Role) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	state, err := bookingDomain.ParseState(c.DefaultQuery("state", string(bookingDomain.StateAll)))
	if err != nil {
		response.Error(c, err)
		return
	}

	page, ok := parsePage(c)
	if !ok {
		return
	}

	result, err := h.queries.ListBookings(c.Request.Context(), userID, role, state, h.now().UTC(), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// pathID parses the :id path parameter, writing a 400 on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// parsePage extracts from and size query parameters with defaults 0 and 10.
func parsePage(c *gin.Context) (bookingDomain.Page, bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		response.BadRequest(c, "from must be an integer")
		return bookingDomain.Page{}, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(bookingDomain.DefaultPageSize)))
	if err != nil {
		response.BadRequest(c, "size must be an integer")
		return bookingDomain.Page{}, false
	}

	page, err := bookingDomain.NewPage(from, size)
	if err != nil {
		response.Error(c, err)
		return bookingDomain.Page{}, false
	}
	return page, true
}
