package wargame

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/fogwar/internal/game/engine"
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/hub"
	"github.com/nfrund/fogwar/internal/middleware"
	"github.com/nfrund/fogwar/internal/module"
	"github.com/nfrund/fogwar/internal/pubsub"
	"github.com/nfrund/fogwar/internal/registry"
)

// WargameModule implements the module.Module interface.
type WargameModule struct {
	module.BaseModule
	game         *engine.Game
	catalog      *stats.Reloadable
	subscriber   pubsub.Subscriber
	feed         *hub.Hub
	rateLimit    float64
	watchCatalog bool
	cancel       context.CancelFunc
}

// Dependencies holds all the services that the WargameModule requires to operate.
type Dependencies struct {
	Game       *engine.Game
	Catalog    *stats.Reloadable
	Subscriber pubsub.Subscriber
	Feed       *hub.Hub
	// RateLimit is the per-client request rate on the game endpoint.
	RateLimit float64
	// WatchCatalog reloads the stat catalog when its files change.
	WatchCatalog bool
}

// New creates a new instance of the WargameModule, injecting its dependencies.
func New(deps Dependencies) *WargameModule {
	return &WargameModule{
		game:         deps.Game,
		catalog:      deps.Catalog,
		subscriber:   deps.Subscriber,
		feed:         deps.Feed,
		rateLimit:    deps.RateLimit,
		watchCatalog: deps.WatchCatalog,
	}
}

// Name returns the unique name for the module.
func (m *WargameModule) Name() string {
	return "wargame"
}

// Register shares the game services with other modules.
func (m *WargameModule) Register(reg *registry.Registry) error {
	if err := registry.Provide(reg, registry.GameKey, m.game); err != nil {
		return err
	}
	if err := registry.Provide(reg, registry.TurnFeedKey, m.feed); err != nil {
		return err
	}
	if m.catalog != nil {
		return registry.Provide(reg, registry.CatalogKey, m.catalog)
	}
	return nil
}

// Boot starts the feed and the announcer, then registers the HTTP routes.
func (m *WargameModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	ctx, m.cancel = context.WithCancel(ctx)

	// --- Start Background Services ---
	go m.feed.Run(ctx)

	announcer := NewAnnouncer(m.subscriber, m.feed)
	if err := announcer.Start(ctx); err != nil {
		m.cancel()
		return err
	}

	if m.watchCatalog && m.catalog != nil {
		go func() {
			if err := m.catalog.Watch(ctx); err != nil {
				slog.Error("Stat catalog watcher stopped", "error", err)
			}
		}()
	}

	// --- Register HTTP Handlers ---
	slog.Info("Booting WargameModule: Setting up routes...")
	handler := NewHandler(m.game)
	feed := NewFeed(ctx, m.feed)
	limiter := middleware.RateLimiter(m.rateLimit)

	g.POST("/api/game", handler.GamePost, limiter)
	// The map client posts here.
	g.POST("/server.js", handler.GamePost, limiter)
	g.GET("/ws/turns", feed.ServeWS)
	g.GET("/metrics", handler.MetricsGet)
	g.GET("/status", handler.StatusGet)

	return nil
}

// Shutdown stops the background services.
func (m *WargameModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down WargameModule...")
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
