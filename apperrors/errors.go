// Package apperrors classifies business errors so handlers map them to HTTP
// status codes in one place instead of per call site.
package apperrors

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(message string) error {
	return &ValidationError{Message: message}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFound(message string) error {
	return &NotFoundError{Message: message}
}

// PaymentGatewayError carries the provider's message through to the client.
type PaymentGatewayError struct {
	Message string
	Err     error
}

func (e *PaymentGatewayError) Error() string { return e.Message }
func (e *PaymentGatewayError) Unwrap() error { return e.Err }

func PaymentGateway(message string, err error) error {
	return &PaymentGatewayError{Message: message, Err: err}
}

type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func Authorization(message string) error {
	return &AuthorizationError{Message: message}
}

// Respond writes the error as {"success": false, "message": ...} with the status
// code the error class maps to. Unclassified errors become a generic 500; the
// underlying error is logged, never sent to the client.
func Respond(c *gin.Context, err error) {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var gatewayErr *PaymentGatewayError
	var authErr *AuthorizationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundErr.Message})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": gatewayErr.Message})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": authErr.Message})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}
