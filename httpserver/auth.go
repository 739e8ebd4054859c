package httpserver

import (
	"net/http"

	"contactmanager/errs"

	"github.com/labstack/echo/v4"
)

var errInvalidBody = errs.Errorf(errs.EINVALID, "Invalid request body")

func (s *Server) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", s.handleSignup)
	g.POST("/login", s.handleLogin)
}

// handleSignup godoc
// @Summary Sign up
// @Description Create an account and return an identity token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body SignupRequest true "Signup payload"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/signup [post]
func (s *Server) handleSignup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := s.AuthService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// handleLogin godoc
// @Summary Log in
// @Description Exchange credentials for an identity token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/login [post]
func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := s.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token})
}
