package scanner

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/models"
	"github.com/sopds/catalog/pkg/worker"
)

// Scanner is the part of the worker exposed over HTTP.
type Scanner interface {
	TriggerScan(trigger string) error
	IsScanning() bool
	Statistics() models.ScanStatistics
}

type handler struct {
	scanner Scanner
}

func (h *handler) scan(c echo.Context) error {
	err := h.scanner.TriggerScan(models.ScanTriggerManual)
	if errors.Is(err, worker.ErrScanInProgress) {
		return errcodes.Conflict("Scan already in progress.")
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusAccepted, map[string]string{
		"status": "started",
	}))
}

func (h *handler) status(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{
		"is_scanning": h.scanner.IsScanning(),
	}))
}

func (h *handler) stats(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, h.scanner.Statistics()))
}
