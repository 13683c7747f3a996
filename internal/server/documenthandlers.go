package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/docscan/internal/database"
)

type createProfileRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required"`
}

func (s *APIService) createProfileHandler(ctx echo.Context) error {
	var request createProfileRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	profile, err := s.coreService.Database().CreateProfile(request.Email, request.DisplayName)
	if err != nil {
		slog.Error("createProfileHandler: failed to create profile", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to create profile")
	}
	return ctx.JSON(http.StatusCreated, profile)
}

func (s *APIService) getProfileHandler(ctx echo.Context) error {
	profile, err := s.coreService.Database().GetProfile(ctx.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.String(http.StatusNotFound, "Profile not found")
	}
	if err != nil {
		slog.Error("getProfileHandler: failed to load profile", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (s *APIService) deleteProfileHandler(ctx echo.Context) error {
	if err := s.coreService.Database().DeleteProfile(ctx.Param("id")); err != nil {
		slog.Error("deleteProfileHandler: failed to delete profile", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete profile")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type createDocumentRequest struct {
	ProfileID string `json:"profileId"`
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content"`
	ImageID   string `json:"imageId"`
}

type updateDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

func (s *APIService) createDocumentHandler(ctx echo.Context) error {
	var request createDocumentRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	document, err := s.coreService.Database().CreateDocument(
		request.ProfileID, request.Title, request.Content, request.ImageID)
	if err != nil {
		slog.Error("createDocumentHandler: failed to create document", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to create document")
	}
	return ctx.JSON(http.StatusCreated, document)
}

func (s *APIService) listDocumentsHandler(ctx echo.Context) error {
	documents, err := s.coreService.Database().GetDocuments(ctx.QueryParam("profileId"))
	if err != nil {
		slog.Error("listDocumentsHandler: failed to list documents", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list documents")
	}
	if documents == nil {
		documents = []*database.Document{}
	}
	return ctx.JSON(http.StatusOK, documents)
}

func (s *APIService) getDocumentHandler(ctx echo.Context) error {
	document, err := s.coreService.Database().GetDocument(ctx.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.String(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		slog.Error("getDocumentHandler: failed to load document", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load document")
	}
	return ctx.JSON(http.StatusOK, document)
}

func (s *APIService) updateDocumentHandler(ctx echo.Context) error {
	var request updateDocumentRequest
	if err := ctx.Bind(&request); err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	document, err := s.coreService.Database().UpdateDocument(ctx.Param("id"), request.Title, request.Content)
	if errors.Is(err, database.ErrNotFound) {
		return ctx.String(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		slog.Error("updateDocumentHandler: failed to update document", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to update document")
	}
	return ctx.JSON(http.StatusOK, document)
}

func (s *APIService) deleteDocumentHandler(ctx echo.Context) error {
	if err := s.coreService.Database().DeleteDocument(ctx.Param("id")); err != nil {
		slog.Error("deleteDocumentHandler: failed to delete document", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete document")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) getDocumentImageHandler(ctx echo.Context) error {
	document, err := s.coreService.Database().GetDocument(ctx.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		return ctx.String(http.StatusNotFound, "Document not found")
	}
	if err != nil {
		slog.Error("getDocumentImageHandler: failed to load document", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load document")
	}
	if document.ImageID == "" {
		return ctx.String(http.StatusNotFound, "Document has no image")
	}

	object, err := s.coreService.Database().GetObject(document.ImageID)
	if errors.Is(err, database.ErrNotFound) {
		return ctx.String(http.StatusNotFound, "Image not available")
	}
	if err != nil {
		slog.Error("getDocumentImageHandler: failed to load image", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load image")
	}
	return ctx.Blob(http.StatusOK, object.ContentType, object.Data)
}
