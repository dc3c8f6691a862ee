package controller

import (
	"net/http"
	"strconv"

	"github.com/rms-local/rms-server/logger"
	"github.com/rms-local/rms-server/web/service"

	"github.com/gin-gonic/gin"
)

// ServerController exposes health, recent-log and audit-log endpoints.
type ServerController struct {
	statusService *service.StatusService
	auditService  service.EventLogService
}

// NewServerController creates a ServerController and registers its routes.
func NewServerController(g *gin.RouterGroup, statusService *service.StatusService) *ServerController {
	a := &ServerController{statusService: statusService}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	g.GET("/health", a.health)
}

// InitAdminRouter registers the routes that require a global admin.
func (a *ServerController) InitAdminRouter(g *gin.RouterGroup) {
	g.GET("/logs", a.getLogs)
	g.GET("/audit", a.getAuditLogs)
}

func (a *ServerController) health(c *gin.Context) {
	c.JSON(http.StatusOK, a.statusService.GetStatus())
}

func (a *ServerController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "100"))
	if err != nil || count < 1 {
		count = 100
	}
	level := c.DefaultQuery("level", "INFO")
	c.JSON(http.StatusOK, logger.GetLogs(count, level))
}

func (a *ServerController) getAuditLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "100"))
	if err != nil || count < 1 {
		count = 100
	}
	entries, err := a.auditService.Recent(count, c.Query("eventCode"))
	if err != nil {
		logger.Warning("query audit log failed:", err)
		jsonError(c)
		return
	}
	c.JSON(http.StatusOK, entries)
}
