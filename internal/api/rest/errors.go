package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ascribe/spool-engine/internal/domain"
	"github.com/ascribe/spool-engine/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest       ErrorCode = "bad_request"
	errCodeNotFound         ErrorCode = "not_found"
	errCodeValidationFailed ErrorCode = "validation_failed"
	errCodeUnauthorized     ErrorCode = "unauthorized"
	errCodeForbidden        ErrorCode = "forbidden"
	errCodeConflict         ErrorCode = "conflict"

	// Server errors (5xx)
	errCodeInternalError ErrorCode = "internal_error"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondDomainError maps ownership engine errors onto HTTP statuses.
// Anything unrecognized is treated as internal.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAllowed):
		respondWithError(c, http.StatusForbidden, errCodeForbidden, "Action not allowed", err.Error())
	case errors.Is(err, domain.ErrWrongPassword):
		respondWithError(c, http.StatusUnauthorized, errCodeUnauthorized, "Password does not match key material", err.Error())
	case errors.Is(err, domain.ErrPendingActionExists):
		respondWithError(c, http.StatusConflict, errCodeConflict, "A pending action already exists", err.Error())
	case errors.Is(err, domain.ErrOwnershipNotFound), errors.Is(err, domain.ErrCapabilityNotFound):
		respondNotFound(c, "Not found", err.Error())
	case errors.Is(err, domain.ErrInvalidAddress):
		respondBadRequest(c, "Invalid bitcoin address", err.Error())
	case errors.Is(err, domain.ErrInvalidEventState):
		respondWithError(c, http.StatusConflict, errCodeConflict, "Event state does not permit this action", err.Error())
	default:
		respondInternalError(c, err, "Internal server error")
	}
}
