package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shareit-hub/service-booking/pkg/domain"
)

// ErrorBody is the error payload of every failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, string(domain.KindBadRequest), message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// TooManyRequests writes a 429 response.
func TooManyRequests(c *gin.Context) {
	abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
}

// InternalError writes an opaque 500 response.
func InternalError(c *gin.Context) {
	abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// Error maps err to a status code. Domain errors keep their message;
// anything else is reported as an opaque 500.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		InternalError(c)
		return
	}
	kind := domain.KindOf(err)
	abort(c, status, string(kind), messageOf(err))
}

// StatusFor returns the HTTP status an error is reported with.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindNoAccess:
		return http.StatusForbidden
	case domain.KindBadRequest, domain.KindUnsupportedStatus:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageOf(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}
