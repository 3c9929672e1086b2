package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/fogwar/internal/handlers"
	"github.com/nfrund/fogwar/internal/middleware"
)

// setupErrorHandling installs the central error handler. Errors echo already
// knows how to render pass through; anything else is logged with a stack
// trace and answered with a generic 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"stack_trace", string(debug.Stack()),
		)

		if jsonErr := c.JSON(http.StatusInternalServerError, handlers.NewErrorResponse("Internal Server Error")); jsonErr != nil {
			e.Logger.Error(jsonErr)
		}
	}
}
