package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest       ErrorCode = "bad_request"
	errCodeNotFound         ErrorCode = "not_found"
	errCodeValidationFailed ErrorCode = "validation_failed"
	errCodeForbidden        ErrorCode = "forbidden"
	errCodeConflict         ErrorCode = "conflict"

	// Server errors (5xx)
	errCodeInternalError ErrorCode = "internal_error"
	errCodeBadUpstream   ErrorCode = "bad_upstream"
	errCodeUpstreamDown  ErrorCode = "upstream_unavailable"
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

// respondValidationError sends a 422 Unprocessable Entity with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusUnprocessableEntity, errCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondDomainError maps a domain error to its HTTP representation.
// Anything not in the taxonomy falls through to a 500.
func respondDomainError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(c, http.StatusForbidden, errCodeForbidden, message, err.Error())
	case errors.Is(err, domain.ErrInvalidBps),
		errors.Is(err, domain.ErrBelowMinimumWithdrawal):
		respondWithError(c, http.StatusUnprocessableEntity, errCodeValidationFailed, message, err.Error())
	case errors.Is(err, domain.ErrTimelockNotExpired),
		errors.Is(err, domain.ErrNoPendingRequest),
		errors.Is(err, domain.ErrPaused):
		respondWithError(c, http.StatusConflict, errCodeConflict, message, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(c, http.StatusNotFound, errCodeNotFound, message, err.Error())
	case errors.Is(err, domain.ErrMalformedPayload):
		// The ledger node answered with bytes we could not decode
		respondWithError(c, http.StatusBadGateway, errCodeBadUpstream, message, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		respondWithError(c, http.StatusServiceUnavailable, errCodeUpstreamDown, message, err.Error())
	default:
		respondInternalError(c, err, message)
	}
}
