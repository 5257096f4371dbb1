package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// StudioAuth protects the authoring studio with HTTP basic auth.
func StudioAuth(user, password string) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: "Studio",
		Validator: func(u, p string, c echo.Context) (bool, error) {
			userOK := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
			if !userOK || !passOK {
				FromContext(c.Request().Context()).Warn("Studio login rejected", "user", u)
				return false, nil
			}
			return true, nil
		},
	})
}
