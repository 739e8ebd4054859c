package httpserver

import (
	"contactmanager/auth"
	"contactmanager/contact"
	"contactmanager/pkg/config"

	"go.uber.org/zap"
)

type Options func(s *Server) error

func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg == nil {
			return nil
		}
		s.Addr = cfg.Addr()
		s.AllowOrigins = cfg.Origins()
		return nil
	}
}

func WithAddr(addr string) Options {
	return func(s *Server) error {
		s.Addr = addr
		return nil
	}
}

// WithAllowOrigins sets the CORS origins. An empty list disables CORS.
func WithAllowOrigins(origins []string) Options {
	return func(s *Server) error {
		s.AllowOrigins = origins
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) error {
		if l != nil {
			s.Logger = l
		}
		return nil
	}
}

func WithContactService(svc contact.Service) Options {
	return func(s *Server) error {
		s.ContactService = svc
		return nil
	}
}

func WithAuthService(svc auth.Service) Options {
	return func(s *Server) error {
		s.AuthService = svc
		return nil
	}
}
