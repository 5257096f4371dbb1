package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/portfolio/internal/registry"
)

// Module is one feature of the site: the page, the webhook, the upload
// bridge or the studio.
type Module interface {
	// Name identifies the module in logs.
	Name() string

	// Register publishes the module's services in the registry. All modules
	// register before any boots, so Boot may look up services of others.
	Register(reg *registry.Registry) error

	// Boot mounts routes on the module's group and starts background work.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown stops background work.
	Shutdown(ctx context.Context) error
}

// Mounted is implemented by modules that want their group under a path
// prefix. Modules without it are mounted at the root.
type Mounted interface {
	Prefix() string
}

// PrefixOf returns the mount prefix of m.
func PrefixOf(m Module) string {
	if p, ok := m.(Mounted); ok {
		return p.Prefix()
	}
	return ""
}

// BaseModule provides no-op implementations for Module methods.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error {
	return nil
}
