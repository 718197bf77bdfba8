package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/community-board/internal/constants"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized = "UNAUTHORIZED"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeFeedUnavailable    = "FEED_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response and stops the handler chain.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	if id := c.GetString(constants.ContextKeyRequestID); id != "" {
		err.RequestID = id
	}
	c.AbortWithStatusJSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// StorageUnavailable sends a 503 response
func StorageUnavailable(c *gin.Context) {
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeStorageUnavailable, "Storage temporarily unavailable"))
}

// FeedUnavailable sends a 503 response
func FeedUnavailable(c *gin.Context) {
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeFeedUnavailable, "Feed temporarily unavailable"))
}
