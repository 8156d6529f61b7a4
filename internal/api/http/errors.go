package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/vishwakarma/shell/internal/bridge"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/browser"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/performance"
	"github.com/GriffinCanCode/vishwakarma/shell/internal/settings"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, bridge.ErrUnknownCommand),
		errors.Is(err, browser.ErrTabNotFound):
		return http.StatusNotFound
	case errors.Is(err, bridge.ErrInvalidParams),
		errors.Is(err, bridge.ErrTypeMismatch),
		errors.Is(err, browser.ErrEmptyURL),
		errors.Is(err, settings.ErrInvalidSettings),
		errors.Is(err, settings.ErrUnknownFormat),
		errors.Is(err, performance.ErrUnknownMode),
		errors.Is(err, performance.ErrInvalidFPS):
		return http.StatusBadRequest
	case bridge.IsUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error body and records it on the context for
// the request logger.
func (h *Handlers) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
