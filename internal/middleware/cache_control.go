package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CacheControl sets the Cache-Control header on successful GET and HEAD
// responses.
func CacheControl(value string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead {
				c.Response().Before(func() {
					if c.Response().Status < http.StatusBadRequest {
						c.Response().Header().Set(echo.HeaderCacheControl, value)
					}
				})
			}
			return next(c)
		}
	}
}
