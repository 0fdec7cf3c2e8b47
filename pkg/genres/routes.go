package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{genreService: NewService(db)}

	g := e.Group("/genres")
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
