package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/auth"
	"github.com/KS-2006-TD/LMS/core/lms"
)

type Server struct {
	conf       *core.Config
	app        *echo.Echo
	svc        *lms.Service
	issuer     *auth.Issuer
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger

	errors   chan error
	shutdown chan os.Signal
}

func NewServer(
	conf *core.Config,
	svc *lms.Service,
	issuer *auth.Issuer,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) *Server {
	s := &Server{
		conf:       conf,
		app:        echo.New(),
		svc:        svc,
		issuer:     issuer,
		validate:   validate,
		translator: translator,
		logger:     logger,
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	debug := s.conf.Debug

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	origins := []string{"*"}
	if s.conf.FrontendURL != "" {
		origins = []string{s.conf.FrontendURL}
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	s.app.Use(metricsMiddleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.translator, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if s.conf.Uploads.Driver == "local" {
		s.app.Static(s.conf.Uploads.Prefix, s.conf.Uploads.Dir)
	}

	api := s.app.Group("/api")
	authed := authMiddleware(s.issuer)
	upload := middleware.BodyLimit(s.conf.Uploads.MaxSize)

	registerUserAPI(api, authed, s.svc, s.issuer, s.validate)
	registerCourseAPI(api, authed, upload, s.svc, s.validate)
	registerCourseworkAPI(api, authed, upload, s.svc, s.validate)
	registerForumAPI(api, authed, s.svc, s.validate)
}

// Start listens until the server is shut down. Errors are reported on Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the LMS API!")
}
