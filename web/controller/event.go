package controller

import (
	"net/http"

	"github.com/rms-local/rms-server/web/entity"
	"github.com/rms-local/rms-server/web/service"

	"github.com/gin-gonic/gin"
)

// EventController handles event provisioning and listing. Its routes sit
// behind the global-admin middleware.
type EventController struct {
	eventService *service.EventService
}

// NewEventController creates an EventController and registers its routes.
func NewEventController(g *gin.RouterGroup, eventService *service.EventService) *EventController {
	a := &EventController{eventService: eventService}
	a.initRouter(g)
	return a
}

func (a *EventController) initRouter(g *gin.RouterGroup) {
	g.POST("/events", a.createEvent)
	g.GET("/events", a.listEvents)
}

func (a *EventController) createEvent(c *gin.Context) {
	req := &service.EventRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		jsonFailure(c, &service.Failure{Kind: service.FailureInvalid, Details: "malformed JSON body"})
		return
	}

	event, failure := a.eventService.CreateEvent(c.Request, req)
	if failure != nil {
		jsonFailure(c, failure)
		return
	}

	c.JSON(http.StatusOK, entity.EventCreated{
		EventCode:   event.Code,
		EventDbPath: event.DbPath,
	})
}

func (a *EventController) listEvents(c *gin.Context) {
	events, err := a.eventService.ListEvents()
	if err != nil {
		jsonError(c)
		return
	}
	c.JSON(http.StatusOK, events)
}
