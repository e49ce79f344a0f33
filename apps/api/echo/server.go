package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/room"
	"github.com/trezcool/dashboard/core/user"
	"github.com/trezcool/dashboard/core/video"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		Auth           *Auth
		UserSvc        user.Service
		RoomSvc        room.Service
		VideoSvc       video.Service
		// SignalShutdown is called when a handler hits an unrecoverable error.
		SignalShutdown func()
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
	if opts.Auth == nil {
		opts.Auth = NewAuth(opts.Conf)
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	jwt := s.opts.Auth.Middleware()
	rpp := conf.Server.DefaultRowsPerPage

	registerUserAPI(v1, jwt, &userAPI{
		svc:            s.opts.UserSvc,
		auth:           s.opts.Auth,
		validate:       s.opts.Validate,
		defRowsPerPage: rpp,
	})
	registerRoomAPI(v1, jwt, &roomAPI{
		svc:            s.opts.RoomSvc,
		validate:       s.opts.Validate,
		defRowsPerPage: rpp,
	})
	registerVideoAPI(v1, jwt, &videoAPI{
		svc:            s.opts.VideoSvc,
		validate:       s.opts.Validate,
		maxUploadSize:  conf.Storage.MaxUploadSize,
		defRowsPerPage: rpp,
	})
}

// Start blocks until the server stops; http.ErrServerClosed is returned after Stop.
func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.Conf.AppName+" API!")
}
