package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/fogwar/internal/config"
	"github.com/nfrund/fogwar/internal/handlers"
	"github.com/nfrund/fogwar/internal/middleware"
	"github.com/nfrund/fogwar/internal/module"
	"github.com/nfrund/fogwar/internal/pubsub"
	"github.com/nfrund/fogwar/internal/registry"
)

// Dependencies holds everything the server needs to run.
type Dependencies struct {
	Config     config.Provider
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Modules    []module.Module
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E       *echo.Echo
	Cfg     config.Provider
	reg     *registry.Registry
	modules []module.Module
}

// New creates a new Server instance.
func New(deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	setupErrorHandling(e)

	reg := registry.New(deps.Config)
	if deps.Publisher != nil {
		registry.Set(reg, registry.PublisherKey, deps.Publisher)
	}
	if deps.Subscriber != nil {
		registry.Set(reg, registry.SubscriberKey, deps.Subscriber)
	}

	return &Server{
		E:       e,
		Cfg:     deps.Config,
		reg:     reg,
		modules: deps.Modules,
	}
}

// Registry returns the service locator shared with the modules.
func (s *Server) Registry() *registry.Registry {
	return s.reg
}
