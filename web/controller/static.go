package controller

import (
	"net/http"
	"strings"

	"github.com/rms-local/rms-server/web/static"

	"github.com/gin-gonic/gin"
)

// StaticController serves the built web UI for every route no API handler
// claimed. With no web root configured it answers a plain-text placeholder.
type StaticController struct {
	resolver *static.Resolver
}

// NewStaticController creates the catch-all static handler. resolver may be
// nil when no web root is configured.
func NewStaticController(resolver *static.Resolver) *StaticController {
	return &StaticController{resolver: resolver}
}

// Handle is installed as the gin NoRoute handler.
func (a *StaticController) Handle(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if a.resolver == nil {
		c.String(http.StatusOK, "RMS server is running. Web assets are not configured.")
		return
	}

	file, ok := a.resolver.Resolve(c.Request.URL.Path)
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.File(file)
}
