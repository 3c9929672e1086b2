package app

import (
	"github.com/nfrund/fogwar/internal/game/engine"
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/hub"
	"github.com/nfrund/fogwar/internal/module"
	"github.com/nfrund/fogwar/internal/modules/wargame"
	"github.com/nfrund/fogwar/internal/pubsub"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Game         *engine.Game
	Catalog      *stats.Reloadable
	Subscriber   pubsub.Subscriber
	TurnFeed     *hub.Hub
	RateLimit    float64
	WatchCatalog bool
}

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		wargame.New(wargameDeps(deps)),
	}
}

// wargameDeps creates the dependency struct for the wargame module.
func wargameDeps(deps Dependencies) wargame.Dependencies {
	return wargame.Dependencies{
		Game:         deps.Game,
		Catalog:      deps.Catalog,
		Subscriber:   deps.Subscriber,
		Feed:         deps.TurnFeed,
		RateLimit:    deps.RateLimit,
		WatchCatalog: deps.WatchCatalog,
	}
}
