package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/fogwar/internal/module"
)

// InitModules runs the module lifecycle: every module registers its
// services first, then every module boots. Modules are mounted at the root.
func (s *Server) InitModules(ctx context.Context) error {
	slog.Info("Starting modules", "modules", module.Names(s.modules))
	for _, m := range s.modules {
		slog.Debug("Registering module", "module", m.Name())
		if err := m.Register(s.reg); err != nil {
			return fmt.Errorf("failed to register module %s: %w", m.Name(), err)
		}
	}

	slog.Debug("Services registered", "services", s.reg.Services())

	root := s.E.Group("")
	for _, m := range s.modules {
		slog.Debug("Booting module", "module", m.Name())
		if err := m.Boot(ctx, root, s.reg); err != nil {
			return fmt.Errorf("failed to boot module %s: %w", m.Name(), err)
		}
	}
	return nil
}

// shutdownModules stops the modules in reverse boot order.
func (s *Server) shutdownModules(ctx context.Context) {
	for i := len(s.modules) - 1; i >= 0; i-- {
		m := s.modules[i]
		if err := m.Shutdown(ctx); err != nil {
			slog.Error("Module shutdown failed", "module", m.Name(), "error", err)
		}
	}
}
