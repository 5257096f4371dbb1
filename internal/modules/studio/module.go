// Package studio is the embedded authoring studio: schema-driven editors
// for the content documents with an asset picker that uploads images
// through the upload bridge.
package studio

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/module"
	"github.com/nfrund/portfolio/internal/registry"
	"github.com/nfrund/portfolio/internal/rendering"
	"github.com/nfrund/portfolio/web/templates/pages"
)

// Dependencies holds what the studio needs besides the shared services it
// resolves from the registry at boot: the document store and the
// revalidator.
type Dependencies struct {
	Images   *cms.ImageURLBuilder
	Renderer rendering.Renderer
	User     string
	Password string
}

// Module mounts the studio under /studio.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the studio module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "studio"
}

// Prefix mounts the module's group at /studio.
func (m *Module) Prefix() string {
	return pages.StudioBase
}

// Boot mounts the studio behind basic auth. Without credentials or a
// write path the studio stays disabled.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	if m.deps.User == "" || m.deps.Password == "" {
		slog.Warn("Studio disabled: credentials not set", "keys", []string{config.KeyStudioUser, config.KeyStudioPassword})
		return nil
	}

	docs, ok := registry.Get(reg, registry.DocumentStoreKey)
	if !ok {
		slog.Warn("Studio disabled: no write path", "keys", []string{config.KeyWriteToken, config.KeyContentFile})
		return nil
	}

	h := NewHandler(docs, registry.MustGet(reg, registry.RevalidatorKey), m.deps.Images, m.deps.Renderer)

	g.Use(middleware.StudioAuth(m.deps.User, m.deps.Password))
	g.GET("", h.Index)
	g.GET("/assets/picker/:kind", h.Picker)
	g.GET("/:kind", h.List)
	g.GET("/:kind/new", h.New)
	g.GET("/:kind/:id", h.Edit)
	g.POST("/:kind", h.Save)
	g.POST("/:kind/:id/delete", h.Delete)

	slog.Info("Studio mounted", "prefix", pages.StudioBase)
	return nil
}
