package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareit-hub/service-booking/pkg/domain"
	"github.com/shareit-hub/service-booking/pkg/response"
)

const (
	// UserIDHeader carries the id of the acting user, set by the gateway.
	UserIDHeader = "X-Sharer-User-Id"
	userIDKey    = "user_id"
)

// SharerIdentityMiddleware requires a positive integer user id header and
// stores it in the gin context.
func SharerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			response.BadRequest(c, UserIDHeader+" header is required")
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, UserIDHeader+" must be a positive integer")
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// GetUserID returns the acting user id set by SharerIdentityMiddleware.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// RequireAdmin lets through only the configured admin user ids.
// Must run after SharerIdentityMiddleware.
func RequireAdmin(adminIDs []int64) gin.HandlerFunc {
	allowed := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		allowed[id] = struct{}{}
	}
	return func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			response.Unauthorized(c, "missing user identity")
			return
		}
		if _, ok := allowed[id]; !ok {
			response.Error(c, domain.NewNoAccessError("admin access required"))
			return
		}
		c.Next()
	}
}
