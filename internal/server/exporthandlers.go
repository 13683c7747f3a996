package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/docscan/internal/export"
)

type exportRequest struct {
	Text   string `json:"text" validate:"required"`
	Format string `json:"format" validate:"required"`
	Name   string `json:"name"`
}

func (s *APIService) exportHandler(ctx echo.Context) error {
	var request exportRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	format := export.Format(request.Format)
	name := request.Name
	if name == "" {
		name = "document"
	}

	path, rendered, err := s.coreService.ExportText(request.Text, format, name)
	if errors.Is(err, export.ErrUnsupportedFormat) {
		return ctx.String(http.StatusBadRequest, "Unsupported export format")
	}
	if err != nil {
		slog.Error("exportHandler: export failed", "format", format, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to export document")
	}

	slog.Debug("exportHandler: document exported", "path", path, "format", format)
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	return ctx.Blob(http.StatusOK, export.MimeType(format), rendered)
}
