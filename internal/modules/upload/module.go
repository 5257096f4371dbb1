// Package upload is the bridge between the studio and blob storage: it
// issues scoped client tokens for direct uploads and records completions.
package upload

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/portfolio/internal/middleware"
	"github.com/nfrund/portfolio/internal/module"
	"github.com/nfrund/portfolio/internal/registry"
	"github.com/nfrund/portfolio/internal/storage"
)

// Dependencies holds the upload bridge's own settings. The token issuer and
// the event publisher are shared services resolved from the registry.
type Dependencies struct {
	Uploader storage.DirectUploader
	// Blobs is set when uploads land on this server; it mounts the blob
	// endpoints.
	Blobs  storage.Store
	Policy storage.Policy
	// RateLimit is the per-client requests per second; zero disables it.
	RateLimit int
}

// Module mounts /api/upload and, for the local backend, the blob endpoints.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the upload module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "upload"
}

// Boot mounts the routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	tokens := registry.MustGet(reg, registry.UploadTokensKey)
	h := NewHandler(m.deps.Uploader, m.deps.Blobs, tokens, m.deps.Policy, registry.MustGet(reg, registry.EventsKey))

	cors := echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	})
	mws := []echo.MiddlewareFunc{cors}
	if m.deps.RateLimit > 0 {
		mws = append(mws, middleware.RateLimiter(m.deps.RateLimit))
	}

	g.POST("/api/upload", h.Upload, mws...)
	g.OPTIONS("/api/upload", h.Options, cors)

	if m.deps.Blobs != nil {
		g.PUT("/api/blob/*", h.PutBlob)
		g.GET("/blob/*", h.GetBlob)
	}

	slog.Info("Upload bridge mounted", "configured", tokens.Configured(), "local_blobs", m.deps.Blobs != nil)
	return nil
}
