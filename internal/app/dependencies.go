// Package app wires the services shared by the modules and decides which
// modules run.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nfrund/portfolio/internal/cache"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/cms/localstore"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/content"
	"github.com/nfrund/portfolio/internal/modules/portfolio"
	"github.com/nfrund/portfolio/internal/modules/revalidate"
	"github.com/nfrund/portfolio/internal/modules/studio"
	"github.com/nfrund/portfolio/internal/modules/upload"
	"github.com/nfrund/portfolio/internal/pubsub"
	"github.com/nfrund/portfolio/internal/rendering"
	"github.com/nfrund/portfolio/internal/revalidation"
	"github.com/nfrund/portfolio/internal/storage"
	"github.com/nfrund/portfolio/web"
	"github.com/spf13/afero"
)

// Dependencies holds the core services that are required by the application's modules.
// It is built once by the entrypoint and passed to NewModules.
type Dependencies struct {
	Config      *config.Config
	Bus         *pubsub.WatermillBridge
	Cache       *cache.Store
	Images      *cms.ImageURLBuilder
	Content     *content.Service
	Documents   cms.DocumentStore
	Local       *localstore.Store
	Revalidator *revalidation.Service
	Uploader    storage.DirectUploader
	Blobs       storage.Store // nil when uploads go to S3
	Tokens      *storage.TokenIssuer
	Profile     *content.Profile
	Renderer    rendering.Renderer
}

// NewDependencies builds the services for cfg. fs holds the local dataset
// and the local blob directory.
func NewDependencies(ctx context.Context, cfg *config.Config, fs afero.Fs) (*Dependencies, error) {
	bus := pubsub.NewWatermillBridge()
	if err := pubsub.LogEvents(ctx, bus); err != nil {
		return nil, fmt.Errorf("subscribe event log: %w", err)
	}

	store := cache.NewStore(cache.Days)
	deps := &Dependencies{
		Config:      cfg,
		Bus:         bus,
		Cache:       store,
		Images:      cms.NewImageURLBuilder(cfg.Sanity.ProjectID, cfg.Sanity.Dataset),
		Revalidator: revalidation.NewService(store, revalidation.WithDelay(cfg.RevalidateDelay), revalidation.WithPublisher(bus)),
		Tokens:      storage.NewTokenIssuer(cfg.Blob.Token, cfg.Blob.TokenTTL),
		Renderer:    rendering.NewUniversalRenderer(),
	}

	var source content.Querier
	if cfg.ContentFile != "" {
		local, err := localstore.Open(fs, cfg.ContentFile)
		if err != nil {
			return nil, err
		}
		deps.Local = local
		deps.Documents = local
		source = local
		slog.Info("Serving content from local dataset", "path", local.Path())
	} else {
		client := cms.NewClient(cfg.Sanity.ProjectID, cfg.Sanity.Dataset, cfg.Sanity.APIVersion,
			cms.WithToken(cfg.Sanity.ReadToken),
			cms.WithCDN(cfg.Sanity.UseCDN),
		)
		if cfg.Sanity.WriteToken != "" {
			deps.Documents = client.Authenticated(cfg.Sanity.WriteToken)
		}
		source = client
	}
	deps.Content = content.NewService(source, deps.Images, store)

	if err := deps.setupBlobs(ctx, fs); err != nil {
		return nil, err
	}

	profile, err := content.LoadProfile(web.Content(), web.ProfileFile)
	if err != nil {
		return nil, err
	}
	deps.Profile = profile

	return deps, nil
}

// WatchLocal revalidates every tag whenever the local dataset changes on
// disk. It does nothing when content comes from the hosted API.
func (d *Dependencies) WatchLocal(ctx context.Context) error {
	if d.Local == nil {
		return nil
	}
	return d.Local.Watch(ctx, func() {
		n := d.Revalidator.RevalidateAll(ctx)
		slog.Info("Local dataset changed", "path", d.Local.Path(), "invalidated", n)
	})
}

// Close releases the event bus.
func (d *Dependencies) Close() error {
	return d.Bus.Close()
}

// setupBlobs picks the upload destination. S3 receives uploads directly;
// the local store receives them through this server's blob endpoints.
func (d *Dependencies) setupBlobs(ctx context.Context, fs afero.Fs) error {
	cfg := d.Config
	if cfg.Blob.Backend == "s3" {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:       cfg.Blob.S3Bucket,
			Region:       cfg.Blob.S3Region,
			Endpoint:     cfg.Blob.S3Endpoint,
			AccessKey:    cfg.Blob.S3AccessKey,
			SecretKey:    cfg.Blob.S3SecretKey,
			UsePathStyle: cfg.Blob.S3PathStyle,
			PublicURL:    cfg.Blob.PublicURL,
		})
		if err != nil {
			return err
		}
		d.Uploader = s3
		return nil
	}

	base := strings.TrimRight(cfg.AppBaseURL, "/")
	public := cfg.Blob.PublicURL
	if public == "" {
		public = base + "/blob"
	}
	local := storage.NewAferoStore(fs, cfg.Blob.Dir, base+"/api/blob", public)
	d.Uploader = local
	d.Blobs = local
	return nil
}

// portfolioDeps creates the dependency struct for the portfolio module.
func portfolioDeps(deps *Dependencies) portfolio.Dependencies {
	return portfolio.Dependencies{
		Content:  deps.Content,
		Store:    deps.Cache,
		Profile:  deps.Profile,
		Renderer: deps.Renderer,
	}
}

// revalidateDeps creates the dependency struct for the webhook module.
func revalidateDeps(deps *Dependencies) revalidate.Dependencies {
	return revalidate.Dependencies{
		Revalidator: deps.Revalidator,
		Secret:      deps.Config.Sanity.WebhookSecret,
		RateLimit:   deps.Config.RateLimit,
	}
}

// uploadDeps creates the dependency struct for the upload bridge.
func uploadDeps(deps *Dependencies) upload.Dependencies {
	return upload.Dependencies{
		Uploader:  deps.Uploader,
		Blobs:     deps.Blobs,
		Policy:    storage.ImagePolicy(deps.Config.Blob.MaxBytes),
		RateLimit: deps.Config.RateLimit,
	}
}

// studioDeps creates the dependency struct for the studio module.
func studioDeps(deps *Dependencies) studio.Dependencies {
	return studio.Dependencies{
		Images:   deps.Images,
		Renderer: deps.Renderer,
		User:     deps.Config.Studio.User,
		Password: deps.Config.Studio.Password,
	}
}
