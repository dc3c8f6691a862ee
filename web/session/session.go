package session

import (
	"time"

	"github.com/rms-local/rms-server/database/model"
	"github.com/rms-local/rms-server/web/service"

	"github.com/gin-gonic/gin"
)

// SetSession attaches the session token cookie to the response. The cookie
// is host-only and HTTP-only; the server is plain HTTP on localhost/LAN.
func SetSession(c *gin.Context, s *model.Session) {
	maxAge := int(time.Until(s.Expires).Seconds())
	c.SetCookie(service.SessionCookie, s.Token, maxAge, "/", "", false, true)
}

// ClearSession expires the session token cookie.
func ClearSession(c *gin.Context) {
	c.SetCookie(service.SessionCookie, "", -1, "/", "", false, true)
}
