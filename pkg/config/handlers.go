package config

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// LibraryConfig is the read-only view of the scanning settings.
type LibraryConfig struct {
	LibraryRootPath  string   `json:"library_root_path"`
	ScanOnStartup    bool     `json:"scan_on_startup"`
	ScanCron         string   `json:"scan_cron"`
	SupportedFormats []string `json:"supported_formats"`
	ZipScanEnabled   bool     `json:"zip_scan_enabled"`
	ZipEncoding      string   `json:"zip_encoding"`
	MaxFileSizeMB    int      `json:"max_file_size_mb"`
	ScanWorkers      int      `json:"scan_workers"`
}

func (cfg *Config) Library() *LibraryConfig {
	return &LibraryConfig{
		LibraryRootPath:  cfg.LibraryRootPath,
		ScanOnStartup:    cfg.ScanOnStartup,
		ScanCron:         cfg.ScanCron,
		SupportedFormats: cfg.SupportedFormats,
		ZipScanEnabled:   cfg.ZipScanEnabled,
		ZipEncoding:      cfg.ZipEncoding,
		MaxFileSizeMB:    cfg.MaxFileSizeMB,
		ScanWorkers:      cfg.ScanWorkers,
	}
}

type handler struct {
	config *Config
}

func (h *handler) retrieve(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, h.config.Library()))
}
