package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spraitoken/presale-tracker/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest       ErrorCode = "bad_request"
	errCodeAlreadySubmitted ErrorCode = "already_submitted"
	errCodeRejected         ErrorCode = "transaction_rejected"

	// Server errors (5xx)
	errCodeInternalError    ErrorCode = "internal_error"
	errCodeChainUnavailable ErrorCode = "chain_unavailable"
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

// respondRejected sends a 422 response naming the specific rejection
// reason. Retrying the same hash will not change this outcome.
func respondRejected(c *gin.Context, message string, reason string) {
	respondWithError(c, http.StatusUnprocessableEntity, errCodeRejected, message, reason)
}

// respondChainUnavailable sends a 503 response; the submission may be
// safely retried later.
func respondChainUnavailable(c *gin.Context) {
	respondWithError(c, http.StatusServiceUnavailable, errCodeChainUnavailable,
		"Blockchain temporarily unavailable, please retry")
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}
