package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/weathercloset/weathercloset/internal/conf"
)

// DefaultBodyLimit caps request bodies when max_upload_size is unset.
const DefaultBodyLimit = "10M"

// NewCORS allows the configured origins to call the API. Bearer tokens
// travel in the Authorization header, so cookies are never shared.
func NewCORS(settings conf.WebServerSettings) echo.MiddlewareFunc {
	origins := settings.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
		ExposeHeaders: []string{echo.HeaderWWWAuthenticate, echo.HeaderXRequestID},
	})
}

// NewSecureHeaders sets nosniff and frame options on every response, plus
// HSTS and a content security policy when configured. Echo only sends HSTS
// over TLS.
func NewSecureHeaders(settings conf.WebServerSettings) echo.MiddlewareFunc {
	return middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            max(settings.HSTSMaxAge, 0),
		ContentSecurityPolicy: settings.ContentSecurityPolicy,
	})
}

// NewBodyLimit rejects request bodies larger than max_upload_size.
func NewBodyLimit(settings conf.WebServerSettings) echo.MiddlewareFunc {
	limit := settings.MaxUploadSize
	if limit == "" {
		limit = DefaultBodyLimit
	}
	return middleware.BodyLimit(limit)
}
