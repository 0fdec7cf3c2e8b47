package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/sopds/catalog/pkg/authors"
	"github.com/sopds/catalog/pkg/binder"
	"github.com/sopds/catalog/pkg/books"
	"github.com/sopds/catalog/pkg/config"
	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/genres"
	"github.com/sopds/catalog/pkg/jobs"
	"github.com/sopds/catalog/pkg/scanner"
	"github.com/sopds/catalog/pkg/series"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, s scanner.Scanner) (*http.Server, error) {
	e, err := newEcho(cfg, db, s)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, s scanner.Scanner) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)

	scanner.RegisterRoutes(e, s)
	books.RegisterRoutes(e, db)
	authors.RegisterRoutes(e, db)
	series.RegisterRoutes(e, db)
	genres.RegisterRoutes(e, db)
	jobs.RegisterRoutes(e, db)
	config.RegisterRoutes(e, cfg)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
