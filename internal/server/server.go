// Package server builds the echo instance, mounts the modules and runs the
// HTTP server until it is told to stop.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/handlers"
	appmiddleware "github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/module"
	"github.com/nfrund/portfolio/internal/rendering"
)

// Dependencies holds everything the server needs to be created.
type Dependencies struct {
	Config   *config.Config
	Renderer *rendering.UniversalRenderer
	// Echo is optional; tests may pass their own instance.
	Echo *echo.Echo
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	Cfg     *config.Config
	modules []module.Module
}

// New creates a new Server instance with the global middleware stack.
func New(deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}

	e := deps.Echo
	if e == nil {
		e = echo.New()
	}
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	if deps.Renderer != nil {
		e.Renderer = deps.Renderer
	}
	setupErrorHandling(e)

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)
	e.Use(middleware.Recover())

	secret := deps.Config.SessionSecret
	if secret == "" {
		slog.Warn("SESSION_SECRET not set; studio flash messages use an ephemeral key")
		secret = randomSecret()
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	return &Server{E: e, Cfg: deps.Config}, nil
}
