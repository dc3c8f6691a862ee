package controller

import (
	"net/http"

	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/web/entity"
	"github.com/rms-local/rms-server/web/service"

	"github.com/gin-gonic/gin"
)

// setupTokenHeader carries the shared setup secret on the bootstrap call.
const setupTokenHeader = "x-setup-token"

// SetupController handles the one-time admin bootstrap endpoints.
type SetupController struct {
	setupService *service.SetupService
}

// NewSetupController creates a SetupController and registers its routes.
func NewSetupController(g *gin.RouterGroup, setupService *service.SetupService) *SetupController {
	a := &SetupController{setupService: setupService}
	a.initRouter(g)
	return a
}

func (a *SetupController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/setup")

	g.GET("/status", a.status)
	g.POST("/admin", a.bootstrapAdmin)
}

func (a *SetupController) status(c *gin.Context) {
	required, err := a.setupService.RequiresAdminSetup()
	if err != nil {
		jsonError(c)
		return
	}
	c.JSON(http.StatusOK, entity.SetupStatus{RequiresAdminSetup: required})
}

func (a *SetupController) bootstrapAdmin(c *gin.Context) {
	req := &service.BootstrapRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		// The token checks still come first: the service rejects a nil
		// payload as invalid only after them.
		req = nil
	}

	username, failure := a.setupService.BootstrapAdmin(c.GetHeader(setupTokenHeader), req)
	if failure != nil {
		jsonFailure(c, failure)
		return
	}

	c.JSON(http.StatusCreated, entity.BootstrapResult{
		Role:     string(model.RoleAdmin),
		Username: username,
	})
}
