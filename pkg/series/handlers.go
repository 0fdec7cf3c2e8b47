package series

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sopds/catalog/pkg/errcodes"
)

type handler struct {
	seriesService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Series")
	}

	series, err := h.seriesService.RetrieveSeries(ctx, RetrieveSeriesOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	books, err := h.seriesService.ListSeriesBooks(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	series.Books = books
	series.BookCount = len(books)

	return errors.WithStack(c.JSON(http.StatusOK, series))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSeriesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	seriesList, total, err := h.seriesService.ListSeriesWithTotal(ctx, ListSeriesOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Search: params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"series": seriesList,
		"total":  total,
	}))
}
