package series

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{seriesService: NewService(db)}

	g := e.Group("/series")
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
