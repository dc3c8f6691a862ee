// Package middleware provides gin middleware for the RMS local server.
package middleware

import (
	"net/http"

	"github.com/rms-local/rms-server/web/entity"
	"github.com/rms-local/rms-server/web/service"

	"github.com/gin-gonic/gin"
)

// AdminRequired resolves the caller through the authorization gate and
// aborts with 401 for anonymous callers, 403 for non-admins.
func AdminRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := auth.CurrentUser(c.Request)
		if userId == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, entity.ErrorResponse{
				Error: string(service.FailureUnauthenticated),
			})
			return
		}
		if !auth.IsGlobalAdmin(userId) {
			c.AbortWithStatusJSON(http.StatusForbidden, entity.ErrorResponse{
				Error:   string(service.FailureForbidden),
				Details: "global admin role required",
			})
			return
		}
		c.Next()
	}
}
