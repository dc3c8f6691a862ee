// Package web provides the HTTP server of the RMS local runtime: routing,
// middleware, controllers and background job scheduling.
package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rms-local/rms-server/config"
	"github.com/rms-local/rms-server/logger"
	"github.com/rms-local/rms-server/util/common"
	"github.com/rms-local/rms-server/web/controller"
	"github.com/rms-local/rms-server/web/job"
	"github.com/rms-local/rms-server/web/middleware"
	"github.com/rms-local/rms-server/web/service"
	"github.com/rms-local/rms-server/web/static"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

// Config carries the runtime options the desktop launcher passes on the
// command line. Nothing here is read from the environment by the server
// itself.
type Config struct {
	Host       string
	Port       int
	DBPath     string
	WebRoot    string
	SetupToken string
}

// Server is the RMS local web server with its controllers, services and
// scheduled maintenance jobs.
type Server struct {
	cfg Config

	httpServer *http.Server
	listener   net.Listener

	identityService *service.LocalIdentityService
	authService     *service.AuthService
	setupService    *service.SetupService
	eventService    *service.EventService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a web server for cfg with a cancellable context.
func NewServer(cfg Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	identity := &service.LocalIdentityService{}
	auth := &service.AuthService{Identity: identity}

	return &Server{
		cfg:             cfg,
		identityService: identity,
		authService:     auth,
		setupService: &service.SetupService{
			Identity:   identity,
			SetupToken: cfg.SetupToken,
		},
		eventService: &service.EventService{
			Auth:      auth,
			EventsDir: filepath.Dir(cfg.DBPath),
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// initRouter initializes gin, registers middleware, controllers and the
// static catch-all, and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	statusService := &service.StatusService{
		Host:      s.cfg.Host,
		Port:      s.cfg.Port,
		DBPath:    s.cfg.DBPath,
		StartedAt: time.Now(),
	}

	api := engine.Group("/api")
	controller.NewSetupController(api, s.setupService)
	controller.NewAuthController(api, s.identityService)
	serverController := controller.NewServerController(api, statusService)

	admin := api.Group("", middleware.AdminRequired(s.authService))
	controller.NewEventController(admin, s.eventService)
	serverController.InitAdminRouter(admin)

	var resolver *static.Resolver
	if s.cfg.WebRoot != "" {
		var err error
		resolver, err = static.NewResolver(s.cfg.WebRoot)
		if err != nil {
			return nil, err
		}
		logger.Info("serving web assets from", resolver.Root())
	} else {
		logger.Warning("no web asset root configured, serving placeholder")
	}
	staticController := controller.NewStaticController(resolver)
	engine.NoRoute(staticController.Handle)

	return engine, nil
}

// startTask schedules the background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@every 10m", job.NewSessionCleanupJob())
	s.cron.AddJob("@daily", job.NewCheckpointJob())
}

// Start initializes and starts the web server. A port that cannot be bound
// is startup-fatal and reported to the caller.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}
