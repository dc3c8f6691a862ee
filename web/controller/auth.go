package controller

import (
	"net/http"
	"time"

	"github.com/rms-local/rms-server/web/entity"
	"github.com/rms-local/rms-server/web/service"
	"github.com/rms-local/rms-server/web/session"

	"github.com/gin-gonic/gin"
)

// AuthController handles login and logout against the local identity
// provider.
type AuthController struct {
	identityService *service.LocalIdentityService
}

// NewAuthController creates an AuthController and registers its routes.
func NewAuthController(g *gin.RouterGroup, identityService *service.LocalIdentityService) *AuthController {
	a := &AuthController{identityService: identityService}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/auth")

	g.POST("/login", a.login)
	g.POST("/logout", a.logout)
}

func (a *AuthController) login(c *gin.Context) {
	req := &struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}{}
	if err := c.ShouldBindJSON(req); err != nil || req.Login == "" || req.Password == "" {
		jsonFailure(c, &service.Failure{Kind: service.FailureInvalid, Details: "login and password are required"})
		return
	}

	s, err := a.identityService.Login(req.Login, req.Password)
	if err != nil {
		// Credential failures and lookup errors are indistinguishable to
		// the caller on purpose.
		jsonFailure(c, &service.Failure{Kind: service.FailureUnauthenticated, Details: "invalid credentials"})
		return
	}

	session.SetSession(c, s)
	c.JSON(http.StatusOK, entity.LoginResult{
		Token:   s.Token,
		UserId:  s.UserId,
		Expires: s.Expires.Format(time.RFC3339),
	})
}

func (a *AuthController) logout(c *gin.Context) {
	if err := a.identityService.Logout(c.Request); err != nil {
		jsonError(c)
		return
	}
	session.ClearSession(c)
	c.Status(http.StatusNoContent)
}
