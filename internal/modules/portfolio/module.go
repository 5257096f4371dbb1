// Package portfolio serves the marketing page.
package portfolio

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/content"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/module"
	"github.com/nfrund/portfolio/internal/registry"
	"github.com/nfrund/portfolio/internal/rendering"
)

// Dependencies holds the services the page needs.
type Dependencies struct {
	Content  *content.Service
	Store    *cache.Store
	Profile  *content.Profile
	Renderer rendering.Renderer
}

// Module mounts GET /.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the portfolio module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "portfolio"
}

// Boot mounts the page with the shared cache policy.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	h := NewHandler(m.deps.Content, m.deps.Profile, m.deps.Renderer)
	g.GET("/", h.Page, middleware.CacheControl(m.deps.Store.Life().CacheControl()))
	slog.Info("Portfolio page mounted", "cache_control", m.deps.Store.Life().CacheControl())
	return nil
}

// Shutdown waits for background cache refreshes.
func (m *Module) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.deps.Store.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
