// Package scanner exposes scan triggering and status over HTTP.
package scanner

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, s Scanner) {
	h := &handler{scanner: s}

	g := e.Group("/scanner")
	g.POST("/scan", h.scan)
	g.GET("/status", h.status)
	g.GET("/stats", h.stats)
}
