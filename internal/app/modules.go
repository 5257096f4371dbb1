package app

import (
	"github.com/nfrund/portfolio/internal/module"
	"github.com/nfrund/portfolio/internal/modules/portfolio"
	"github.com/nfrund/portfolio/internal/modules/revalidate"
	"github.com/nfrund/portfolio/internal/modules/studio"
	"github.com/nfrund/portfolio/internal/modules/upload"
	"github.com/nfrund/portfolio/internal/pubsub"
	"github.com/nfrund/portfolio/internal/registry"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps *Dependencies) []module.Module {
	return []module.Module{
		portfolio.New(portfolioDeps(deps)),
		revalidate.New(revalidateDeps(deps)),
		upload.New(uploadDeps(deps)),
		studio.New(studioDeps(deps)),
	}
}

// NewRegistry seeds a registry with the services owned by the application
// rather than by a module. Modules add their own in Register; the
// revalidate module publishes the revalidator.
func NewRegistry(deps *Dependencies) *registry.Registry {
	reg := registry.New(deps.Config)
	registry.Set(reg, registry.EventsKey, pubsub.Publisher(deps.Bus))
	registry.Set(reg, registry.UploadTokensKey, deps.Tokens)
	if deps.Documents != nil {
		registry.Set(reg, registry.DocumentStoreKey, deps.Documents)
	}
	return reg
}
