package httpserver

import (
	"errors"
	"net/http"

	"contactmanager/auth"
	"contactmanager/contact"
	"contactmanager/errs"
	"contactmanager/pkg/sentry"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// codeTokenInvalid marks authentication failures so clients can tell them
// apart from the ownership 401.
const codeTokenInvalid = "token_invalid"

const serverErrorMessage = "Server error"

type ErrorResponse struct {
	Msg  string `json:"msg"`
	Code string `json:"code,omitempty"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// handleError is the echo HTTPErrorHandler. Application errors are mapped by
// code; anything unexpected becomes a 500 without internal detail.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Errorw(
			err.Error(),
			zap.String("request_id", s.requestID(c)),
		)
		sentry.WithContext(c).Error(err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		s.Logger.Errorw("write error response", zap.Error(werr))
	}
}

func (s *Server) errorResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok || msg == "" {
			msg = http.StatusText(he.Code)
		}
		if he.Code >= http.StatusInternalServerError {
			msg = serverErrorMessage
		}
		return he.Code, ErrorResponse{Msg: msg}
	}

	if isTokenError(err) {
		return http.StatusUnauthorized, ErrorResponse{Msg: errs.ErrorMessage(err), Code: codeTokenInvalid}
	}

	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest, ErrorResponse{Msg: errs.ErrorMessage(err)}
	case errs.ENOTFOUND:
		return http.StatusNotFound, ErrorResponse{Msg: errs.ErrorMessage(err)}
	case errs.ECONFLICT:
		return http.StatusConflict, ErrorResponse{Msg: errs.ErrorMessage(err)}
	case errs.EUNAUTHORIZED:
		return http.StatusUnauthorized, ErrorResponse{Msg: errs.ErrorMessage(err)}
	case errs.ETOOMANYREQUESTS:
		return http.StatusTooManyRequests, ErrorResponse{Msg: errs.ErrorMessage(err)}
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented, ErrorResponse{Msg: errs.ErrorMessage(err)}
	}
	return http.StatusInternalServerError, ErrorResponse{Msg: serverErrorMessage}
}

func isTokenError(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, contact.ErrOwnerRequired)
}

func (s *Server) requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
