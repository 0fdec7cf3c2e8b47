package genres

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	genreService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	// Genres can be addressed by ID or by FB2 code.
	opts := RetrieveGenreOptions{}
	param := c.Param("id")
	if id, err := strconv.Atoi(param); err == nil {
		opts.ID = &id
	} else {
		opts.Code = &param
	}

	genre, err := h.genreService.RetrieveGenre(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, genre))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListGenresQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genres, total, err := h.genreService.ListGenresWithTotal(ctx, ListGenresOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Search:   params.Search,
		NonEmpty: params.NonEmpty,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"genres": genres,
		"total":  total,
	}))
}
