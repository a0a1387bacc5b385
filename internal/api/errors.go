package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/weathercloset/weathercloset/internal/api/middleware"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

const (
	internalErrorMessage = "Internal server error"
	upstreamErrorMessage = "Upstream service error"
)

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"`
}

// NewErrorResponse creates an API error response.
func NewErrorResponse(err error, message string, code int, correlationID string) *ErrorResponse {
	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}
	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// statusFor maps an error category to an HTTP status code.
func statusFor(err error) int {
	switch errors.CategoryOf(err) {
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryServiceUnavailable:
		return http.StatusServiceUnavailable
	case errors.CategoryUpstream, errors.CategoryNetwork:
		return http.StatusBadGateway
	case errors.CategoryTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes err as a JSON error response with the status derived
// from its category.
func (s *Server) HandleError(c echo.Context, err error) error {
	return s.HandleErrorWithStatus(c, err, statusFor(err))
}

// HandleErrorWithStatus writes err with an explicit status code. Server side
// failures are logged in full and answered with a generic message.
func (s *Server) HandleErrorWithStatus(c echo.Context, err error, code int) error {
	message := err.Error()
	switch {
	case code == http.StatusBadGateway, code == http.StatusGatewayTimeout:
		message = upstreamErrorMessage
	case code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable:
		message = internalErrorMessage
	}

	resp := NewErrorResponse(nil, message, code, mw.RequestID(c))
	if code >= http.StatusInternalServerError {
		resp.Error = http.StatusText(code)
	}

	fields := []logger.Field{
		logger.String("correlation_id", resp.CorrelationID),
		logger.Int("code", code),
		logger.String("path", c.Request().URL.Path),
		logger.String("method", c.Request().Method),
		logger.String("ip", c.RealIP()),
		logger.Error(err),
	}
	if code >= http.StatusInternalServerError {
		GetLogger().Error("API error", fields...)
	} else {
		GetLogger().Debug("API error", fields...)
	}

	if code == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return c.JSON(code, resp)
}

// errorHandler renders errors that escape handlers, such as unknown routes
// or oversized bodies, in the API error format.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		resp := NewErrorResponse(nil, message, he.Code, mw.RequestID(c))
		if err := c.JSON(he.Code, resp); err != nil {
			GetLogger().Warn("failed to write error response", logger.Error(err))
		}
		return
	}

	if err := s.HandleError(c, err); err != nil {
		GetLogger().Warn("failed to write error response", logger.Error(err))
	}
}

// validationFailed answers a malformed request body with 422.
func (s *Server) validationFailed(c echo.Context, format string, args ...any) error {
	return s.HandleErrorWithStatus(c, errors.ValidationError(fmt.Sprintf(format, args...)), http.StatusUnprocessableEntity)
}
