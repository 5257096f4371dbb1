package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/portfolio/internal/app"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/logging"
	"github.com/nfrund/portfolio/internal/rendering"
	"github.com/nfrund/portfolio/internal/server"
	"github.com/spf13/afero"
)

func main() {
	logging.New()

	if err := run(context.Background()); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	deps, err := app.NewDependencies(ctx, cfg, afero.NewOsFs())
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.WatchLocal(ctx); err != nil {
		slog.Warn("Local dataset watcher disabled", "error", err)
	}

	// Create a new server instance.
	s, err := server.New(server.Dependencies{
		Config:   cfg,
		Renderer: rendering.NewUniversalRenderer(),
	})
	if err != nil {
		return err
	}

	// Register all application routes.
	s.RegisterRoutes()
	if err := s.InitModules(ctx, app.NewModules(deps), app.NewRegistry(deps)); err != nil {
		return err
	}

	// Start the server.
	return s.Start(ctx)
}
