package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *APIService) createScanHandler(ctx echo.Context) error {
	file, err := ctx.FormFile("image")
	if err != nil {
		slog.Warn("createScanHandler: missing image upload", "error", err)
		return ctx.String(http.StatusBadRequest, "Missing image upload")
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("createScanHandler: failed to open uploaded file",
			"error", err, "filename", file.Filename)
		return ctx.String(http.StatusInternalServerError, "Failed to open uploaded file")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("createScanHandler: failed to close uploaded file reader",
				"error", cerr, "filename", file.Filename)
		}
	}()

	image, err := io.ReadAll(src)
	if err != nil {
		slog.Error("createScanHandler: failed to read uploaded file",
			"error", err, "filename", file.Filename)
		return ctx.String(http.StatusInternalServerError, "Failed to read uploaded file")
	}

	scan, err := s.coreService.ProcessScan(ctx.Request().Context(), image)
	if err != nil {
		slog.Error("createScanHandler: scan processing failed",
			"error", err, "filename", file.Filename)
		return ctx.String(http.StatusInternalServerError, "Failed to extract text from image")
	}

	return ctx.JSON(http.StatusCreated, scan)
}

func (s *APIService) listScansHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.coreService.History().Scans())
}

func (s *APIService) deleteScanHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	if !s.coreService.History().Remove(ctx.Request().Context(), id) {
		return ctx.String(http.StatusNotFound, "Scan not found")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) clearScansHandler(ctx echo.Context) error {
	s.coreService.History().Clear(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}
