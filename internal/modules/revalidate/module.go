// Package revalidate mounts the content lake webhook that invalidates cached
// content when documents change.
package revalidate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/module"
	"github.com/nfrund/portfolio/internal/registry"
	"github.com/nfrund/portfolio/internal/revalidation"
)

// Dependencies holds the services the webhook needs.
type Dependencies struct {
	Revalidator *revalidation.Service
	Secret      string
	// RateLimit is the per-client requests per second; zero disables it.
	RateLimit int
}

// Module mounts POST /api/revalidate.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the revalidate module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "revalidate"
}

// Prefix mounts the webhook under /api.
func (m *Module) Prefix() string {
	return "/api"
}

// Register publishes the revalidation service.
func (m *Module) Register(reg *registry.Registry) error {
	registry.Set(reg, registry.RevalidatorKey, m.deps.Revalidator)
	return nil
}

// Boot mounts the webhook. Without a secret no request could ever be
// verified, so the module refuses to start.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	if m.deps.Secret == "" {
		return fmt.Errorf("%w: missing environment variable %s", domain.ErrMissingConfig, config.KeyWebhookSecret)
	}

	var mws []echo.MiddlewareFunc
	if m.deps.RateLimit > 0 {
		mws = append(mws, middleware.RateLimiter(m.deps.RateLimit))
	}

	h := NewHandler(m.deps.Revalidator, m.deps.Secret)
	g.POST("/revalidate", h.Revalidate, mws...)
	slog.Info("Revalidation webhook mounted", "path", "/api/revalidate")
	return nil
}
