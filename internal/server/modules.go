package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nfrund/portfolio/internal/module"
	"github.com/nfrund/portfolio/internal/registry"
)

// InitModules registers every module, then boots each on its own group.
// All registrations happen first so modules can look each other up.
func (s *Server) InitModules(ctx context.Context, modules []module.Module, reg *registry.Registry) error {
	for _, m := range modules {
		if err := m.Register(reg); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
		slog.Debug("Module registered", "module", m.Name())
	}

	for _, m := range modules {
		g := s.E.Group(module.PrefixOf(m))
		if err := m.Boot(ctx, g, reg); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		s.modules = append(s.modules, m)
		slog.Info("Module booted", "module", m.Name())
	}
	return nil
}

// shutdownModules stops booted modules in reverse order.
func (s *Server) shutdownModules(ctx context.Context) error {
	var errs []error
	for i := len(s.modules) - 1; i >= 0; i-- {
		m := s.modules[i]
		if err := m.Shutdown(ctx); err != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}
