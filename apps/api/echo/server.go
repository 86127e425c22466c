package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/badge"
	"github.com/elimucd/backend/core/notification"
	"github.com/elimucd/backend/core/role"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		BadgeSvc        badge.Service
		RoleSvc         role.Service
		NotificationSvc notification.Service
		AuditSvc        audit.Service

		Logger core.Logger

		// Shutdown receives a SIGTERM when an integrity error requires a
		// graceful stop.
		Shutdown chan<- os.Signal
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)
	rec := newAuditRecorder(s.opts.AuditSvc, s.opts.Logger)

	registerBadgeAPI(v1, jwt, s.opts.BadgeSvc, s.opts.RoleSvc, rec)
	registerGamifyAPI(v1, jwt, s.opts.RoleSvc)
	registerNotificationAPI(v1, jwt, s.opts.NotificationSvc, s.opts.RoleSvc)
	registerAuditAPI(v1, jwt, s.opts.AuditSvc, s.opts.RoleSvc)
	registerRoleAPI(v1, jwt, s.opts.RoleSvc, rec)
}

func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
