// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/landingkit/internal/application/services"
	"github.com/AtRiskMedia/landingkit/internal/domain/entities/product"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/landingkit/internal/infrastructure/messaging"
)

var badRequestErrors = []error{
	product.ErrInvalidCommand,
	product.ErrUnknownOp,
	product.ErrUnknownField,
	product.ErrIndexOutOfRange,
	product.ErrInvalidLayout,
	product.ErrInvalidFormat,
	services.ErrInvalidSource,
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, stores.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, messaging.ErrTooManySurfaces) {
		return http.StatusTooManyRequests
	}
	if isBodyTooLarge(err) {
		return http.StatusRequestEntityTooLarge
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "request body too large")
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
