package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jo-hoe/docscan/internal/core"
)

// APIService exposes the scan, settings, export and document operations
// over HTTP.
type APIService struct {
	coreService *core.CoreService
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Probe route for liveness checks
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.POST("/scans", s.createScanHandler)
	api.GET("/scans", s.listScansHandler)
	api.DELETE("/scans/:id", s.deleteScanHandler)
	api.DELETE("/scans", s.clearScansHandler)

	api.GET("/settings/language", s.getLanguageHandler)
	api.PUT("/settings/language", s.setLanguageHandler)

	api.GET("/settings/pin", s.getPinStatusHandler)
	api.POST("/settings/pin", s.enablePinHandler)
	api.POST("/settings/pin/verify", s.verifyPinHandler)
	api.DELETE("/settings/pin", s.disablePinHandler)

	api.POST("/exports", s.exportHandler)

	api.POST("/profiles", s.createProfileHandler)
	api.GET("/profiles/:id", s.getProfileHandler)
	api.DELETE("/profiles/:id", s.deleteProfileHandler)

	api.POST("/documents", s.createDocumentHandler)
	api.GET("/documents", s.listDocumentsHandler)
	api.GET("/documents/:id", s.getDocumentHandler)
	api.PUT("/documents/:id", s.updateDocumentHandler)
	api.DELETE("/documents/:id", s.deleteDocumentHandler)
	api.GET("/documents/:id/image", s.getDocumentImageHandler)
}
