package wargame

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/engine"
	"github.com/nfrund/fogwar/internal/handlers"
	"github.com/nfrund/fogwar/internal/middleware"
)

// Messages shown verbatim by the map client.
const (
	msgWrongPassword = "Wrong password"
	msgAdminMove     = "Error: User attempted admin move"
	msgMalformed     = "Malformed request"
	msgPersistence   = "Failed to save the game, please retry"
)

// Game is the part of the engine the HTTP layer talks to.
type Game interface {
	Handle(ctx context.Context, req engine.Request) (*engine.Response, error)
	Status() engine.Status
	Metrics() *engine.Metrics
}

// Handler serves the game endpoints.
type Handler struct {
	game Game
}

// NewHandler creates a new game handler.
func NewHandler(game Game) *Handler {
	return &Handler{game: game}
}

// GamePost serves sync and turnChange requests.
func (h *Handler) GamePost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req engine.Request
	if err := c.Bind(&req); err != nil {
		logger.Warn("Failed to bind game request", "error", err)
		return c.JSON(http.StatusBadRequest, handlers.NewErrorResponse(msgMalformed))
	}
	if err := c.Validate(&req); err != nil {
		logger.Warn("Invalid game request", "error", err)
		return c.JSON(http.StatusBadRequest, handlers.NewErrorResponse(err.Error()))
	}

	resp, err := h.game.Handle(ctx, req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, resp)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusOK, handlers.NewErrorResponse(msgWrongPassword))
	case errors.Is(err, domain.ErrAdminOnly):
		return c.JSON(http.StatusOK, handlers.NewErrorResponse(msgAdminMove))
	case errors.Is(err, domain.ErrUnknownRequest):
		return c.JSON(http.StatusBadRequest, handlers.NewErrorResponse(err.Error()))
	case errors.Is(err, domain.ErrPersistence):
		logger.Error("Game request not committed", "error", err)
		return c.JSON(http.StatusInternalServerError, handlers.NewErrorResponse(msgPersistence))
	default:
		return err
	}
}

// MetricsGet returns the engine counters.
func (h *Handler) MetricsGet(c echo.Context) error {
	return c.JSON(http.StatusOK, h.game.Metrics().Snapshot())
}

// StatusGet returns the turn schedule. It carries no unit data.
func (h *Handler) StatusGet(c echo.Context) error {
	return c.JSON(http.StatusOK, h.game.Status())
}
