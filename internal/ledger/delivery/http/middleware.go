package http

import (
	"golang-portfolio-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestContext puts the X-Request-Id assigned by middleware.RequestID on the
// request context so context-aware log calls carry it. Register it after
// middleware.RequestID.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}
