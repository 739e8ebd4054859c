package httpserver

import (
	"context"
	"net/http"

	"contactmanager/auth"
	"contactmanager/contact"
	"contactmanager/pkg/config"
	"contactmanager/pkg/logger"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	Logger *zap.SugaredLogger

	ContactService contact.Service

	AuthService auth.Service
}

// New builds a server with every route registered. Services are resolved at
// request time, so they may also be assigned after construction.
func New(options ...Options) (*Server, error) {
	s := Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: []string{"*"},
		Logger:       logger.NOOPLogger,
	}

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.handleError
	s.Router.Validator = NewValidator()

	s.RegisterGlobalMiddlewares()

	api := s.Router.Group("/api")
	s.RegisterAuthRoutes(api.Group("/auth"))
	s.RegisterContactRoutes(api.Group("/contacts", s.authMiddleware()))

	s.RegisterHealthRoutes()
	s.RegisterSwaggerRoutes()

	return &s, nil
}

func Default(cfg *config.Config) *Server {
	s, _ := New(WithConfig(cfg))
	return s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(s.requestLogger())

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
			AllowHeaders: []string{
				echo.HeaderOrigin,
				echo.HeaderContentType,
				echo.HeaderAccept,
				echo.HeaderAuthorization,
				headerAuthToken,
			},
		}))
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.Logger.Infow("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"request_id", v.RequestID,
			)
			return nil
		},
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}
