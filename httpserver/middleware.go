package httpserver

import (
	"strings"

	"contactmanager/auth"
	"contactmanager/contact"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	headerAuthToken = "x-auth-token"

	// userContextKey holds the authenticated user id for the request.
	userContextKey = "user"
)

// authMiddleware verifies the identity token from either the Authorization
// bearer header or x-auth-token and stores the resulting user id.
func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  userContextKey,
		TokenLookup: "header:Authorization:Bearer ,header:" + headerAuthToken,
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			if s.AuthService == nil {
				return nil, auth.ErrInvalidToken
			}
			return s.AuthService.Authenticate(token)
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			if hasToken(c) {
				return auth.ErrInvalidToken
			}
			return contact.ErrOwnerRequired
		},
	})
}

func hasToken(c echo.Context) bool {
	h := c.Request().Header
	if strings.TrimSpace(h.Get(headerAuthToken)) != "" {
		return true
	}
	bearer := h.Get(echo.HeaderAuthorization)
	return len(bearer) > len("Bearer ") && strings.EqualFold(bearer[:len("Bearer ")], "Bearer ")
}

func currentUser(c echo.Context) string {
	id, _ := c.Get(userContextKey).(string)
	return id
}
