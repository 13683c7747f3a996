package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/docscan/internal/settings"
)

type languageResponse struct {
	Language  settings.Language   `json:"language"`
	Supported []settings.Language `json:"supported"`
}

type setLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

func (s *APIService) getLanguageHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, languageResponse{
		Language:  s.coreService.Languages().Language(),
		Supported: settings.SupportedLanguages(),
	})
}

func (s *APIService) setLanguageHandler(ctx echo.Context) error {
	var request setLanguageRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	err := s.coreService.Languages().Set(ctx.Request().Context(), settings.Language(request.Language))
	if errors.Is(err, settings.ErrInvalidLanguage) {
		return ctx.String(http.StatusBadRequest, "Unsupported OCR language")
	}
	if err != nil {
		slog.Error("setLanguageHandler: failed to set language", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to update language")
	}

	return ctx.JSON(http.StatusOK, languageResponse{
		Language:  s.coreService.Languages().Language(),
		Supported: settings.SupportedLanguages(),
	})
}

type pinStatusResponse struct {
	Enabled bool `json:"enabled"`
}

type pinRequest struct {
	Pin string `json:"pin" validate:"required"`
}

func (s *APIService) getPinStatusHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, pinStatusResponse{Enabled: s.coreService.Pin().Enabled()})
}

func (s *APIService) enablePinHandler(ctx echo.Context) error {
	var request pinRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	if err := s.coreService.Pin().Enable(ctx.Request().Context(), request.Pin); err != nil {
		return ctx.String(http.StatusBadRequest, err.Error())
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) verifyPinHandler(ctx echo.Context) error {
	var request pinRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	switch err := s.coreService.Pin().Verify(request.Pin); {
	case errors.Is(err, settings.ErrPinNotEnabled):
		return ctx.String(http.StatusConflict, "PIN security is not enabled")
	case errors.Is(err, settings.ErrPinMismatch):
		return ctx.String(http.StatusUnauthorized, "PIN does not match")
	case err != nil:
		slog.Error("verifyPinHandler: verification failed", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to verify PIN")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) disablePinHandler(ctx echo.Context) error {
	var request pinRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	switch err := s.coreService.Pin().Disable(ctx.Request().Context(), request.Pin); {
	case errors.Is(err, settings.ErrPinNotEnabled):
		return ctx.String(http.StatusConflict, "PIN security is not enabled")
	case errors.Is(err, settings.ErrPinMismatch):
		return ctx.String(http.StatusUnauthorized, "PIN does not match")
	case err != nil:
		slog.Error("disablePinHandler: disable failed", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to disable PIN")
	}
	return ctx.NoContent(http.StatusNoContent)
}
