package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/guestlist-api/internal/domain/event"
	"github.com/gravadigital/guestlist-api/internal/rsvp"
)

// Response is the standard API response envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// SuccessResponse sends a successful response
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseWithMessage sends an error response with a custom message
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

// BadRequestError sends a 400 error
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

// NotFoundError sends a 404 error
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

// InternalServerError sends a 500 error
func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

// ConflictError sends a 409 error
func ConflictError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusConflict, message)
}

// DomainError maps a domain or service error to the matching HTTP status.
func DomainError(c *gin.Context, err error) {
	var pe *rsvp.PersistenceError
	switch {
	case errors.Is(err, event.ErrEventNotFound), errors.Is(err, event.ErrNotInRoster):
		NotFoundError(c, err.Error())
	case errors.Is(err, event.ErrEventExists), errors.Is(err, event.ErrEventClosed):
		ConflictError(c, err.Error())
	case errors.Is(err, event.ErrInvalidCapacity), errors.Is(err, event.ErrInvalidName),
		errors.Is(err, rsvp.ErrInvalidAudience):
		BadRequestError(c, err.Error())
	case errors.As(err, &pe):
		InternalServerError(c, err.Error())
	default:
		InternalServerError(c, err.Error())
	}
}
