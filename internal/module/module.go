package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/fogwar/internal/registry"
)

// Module is a feature mounted on the server, such as the game endpoints and
// the turn feed.
type Module interface {
	// Name identifies the module in logs and errors.
	Name() string

	// Register shares the module's services. Every module registers before
	// any module boots, so Register must not look anything up.
	Register(reg *registry.Registry) error

	// Boot mounts routes and starts background work. The context is
	// cancelled when the server stops.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown stops background work. Modules shut down in reverse boot order.
	Shutdown(ctx context.Context) error
}

// BaseModule gives embedders no-op lifecycle hooks.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }

func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}

func (m *BaseModule) Shutdown(ctx context.Context) error { return nil }

// Names returns the module names in order.
func Names(mods []Module) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name()
	}
	return names
}
