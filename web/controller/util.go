// Package controller provides the HTTP handlers of the RMS local server:
// setup, events, auth, health and static assets.
package controller

import (
	"net/http"

	"github.com/rms-local/rms-server/web/entity"
	"github.com/rms-local/rms-server/web/service"

	"github.com/gin-gonic/gin"
)

// failureStatus maps the failure taxonomy to HTTP status codes.
var failureStatus = map[service.FailureKind]int{
	service.FailureInvalid:         http.StatusBadRequest,
	service.FailureUnauthenticated: http.StatusUnauthorized,
	service.FailureUnauthorized:    http.StatusUnauthorized,
	service.FailureForbidden:       http.StatusForbidden,
	service.FailureConflict:        http.StatusConflict,
	service.FailureUnavailable:     http.StatusServiceUnavailable,
	service.FailureInternal:        http.StatusInternalServerError,
}

// jsonFailure writes a classified failure as the uniform error body.
func jsonFailure(c *gin.Context, f *service.Failure) {
	status, ok := failureStatus[f.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, entity.ErrorResponse{
		Error:   string(f.Kind),
		Details: f.Details,
	})
}

// jsonError writes an unclassified error as an internal failure.
func jsonError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
		Error: string(service.FailureInternal),
	})
}
