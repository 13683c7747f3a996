package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/docscan/internal/common"
	"github.com/jo-hoe/docscan/internal/core"
	"github.com/jo-hoe/docscan/internal/history"
)

// newTestServer builds an echo instance whose core service talks to a
// stubbed OCR backend.
func newTestServer(t *testing.T, ocrHandler http.HandlerFunc) *echo.Echo {
	t.Helper()

	ocrBackend := httptest.NewServer(ocrHandler)
	t.Cleanup(ocrBackend.Close)

	config := &core.ServiceConfig{
		Port:     8080,
		Database: core.DatabaseConfig{Type: "sqlite", ConnectionString: ":memory:"},
		KVStore:  core.KVStoreConfig{Type: "memory"},
		OCR:      core.OCRConfig{Endpoint: ocrBackend.URL, TimeoutSeconds: 5},
		Export:   core.ExportConfig{Directory: t.TempDir()},
	}

	coreService, err := core.NewCoreService(config)
	if err != nil {
		t.Fatalf("NewCoreService error: %v", err)
	}
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	e.Validator = common.NewEchoValidator()
	NewAPIService(coreService).SetRoutes(e)
	return e
}

func okOCRBackend(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
	}
}

func testImagePNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{120, 120, 120, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func multipartImageRequest(t *testing.T, target string, imageData []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "scan.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(imageData); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestProbe(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodGet, "/probe", "")
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestCreateScan(t *testing.T) {
	e := newTestServer(t, okOCRBackend("scanned text"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartImageRequest(t, "/api/v1/scans", testImagePNG(t)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var scan history.Scan
	if err := json.Unmarshal(rec.Body.Bytes(), &scan); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if scan.Text != "scanned text" {
		t.Errorf("Expected scan text %q, got %q", "scanned text", scan.Text)
	}
	if scan.ID == "" {
		t.Error("Expected scan ID in response")
	}

	// The scan shows up in the history listing.
	listRec := doJSON(e, http.MethodGet, "/api/v1/scans", "")
	if listRec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", listRec.Code)
	}
	var scans []history.Scan
	if err := json.Unmarshal(listRec.Body.Bytes(), &scans); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(scans) != 1 || scans[0].ID != scan.ID {
		t.Errorf("Expected listed scan %q, got %v", scan.ID, scans)
	}
}

func TestCreateScan_MissingUpload(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodPost, "/api/v1/scans", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateScan_OCRFailure(t *testing.T) {
	e := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartImageRequest(t, "/api/v1/scans", testImagePNG(t)))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}

func TestDeleteScan(t *testing.T) {
	e := newTestServer(t, okOCRBackend("text"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartImageRequest(t, "/api/v1/scans", testImagePNG(t)))
	var scan history.Scan
	if err := json.Unmarshal(rec.Body.Bytes(), &scan); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	delRec := doJSON(e, http.MethodDelete, "/api/v1/scans/"+scan.ID, "")
	if delRec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", delRec.Code)
	}

	missingRec := doJSON(e, http.MethodDelete, "/api/v1/scans/"+scan.ID, "")
	if missingRec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing scan, got %d", missingRec.Code)
	}
}

func TestLanguageSettings(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodGet, "/api/v1/settings/language", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"language":"auto"`) {
		t.Errorf("Expected default language auto, got %s", rec.Body.String())
	}

	putRec := doJSON(e, http.MethodPut, "/api/v1/settings/language", `{"language":"fr"}`)
	if putRec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", putRec.Code, putRec.Body.String())
	}

	getRec := doJSON(e, http.MethodGet, "/api/v1/settings/language", "")
	if !strings.Contains(getRec.Body.String(), `"language":"fr"`) {
		t.Errorf("Expected language fr, got %s", getRec.Body.String())
	}
}

func TestLanguageSettings_RejectsInvalid(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodPut, "/api/v1/settings/language", `{"language":"xx"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	getRec := doJSON(e, http.MethodGet, "/api/v1/settings/language", "")
	if !strings.Contains(getRec.Body.String(), `"language":"auto"`) {
		t.Errorf("Expected language to remain auto, got %s", getRec.Body.String())
	}
}

func TestPinLifecycle(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	statusRec := doJSON(e, http.MethodGet, "/api/v1/settings/pin", "")
	if !strings.Contains(statusRec.Body.String(), `"enabled":false`) {
		t.Errorf("Expected pin disabled, got %s", statusRec.Body.String())
	}

	enableRec := doJSON(e, http.MethodPost, "/api/v1/settings/pin", `{"pin":"1234"}`)
	if enableRec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d: %s", enableRec.Code, enableRec.Body.String())
	}

	verifyRec := doJSON(e, http.MethodPost, "/api/v1/settings/pin/verify", `{"pin":"1234"}`)
	if verifyRec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for matching pin, got %d", verifyRec.Code)
	}

	wrongRec := doJSON(e, http.MethodPost, "/api/v1/settings/pin/verify", `{"pin":"0000"}`)
	if wrongRec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong pin, got %d", wrongRec.Code)
	}

	disableRec := doJSON(e, http.MethodDelete, "/api/v1/settings/pin", `{"pin":"1234"}`)
	if disableRec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", disableRec.Code)
	}
}

func TestExportHTML(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodPost, "/api/v1/exports", `{"text":"a\nb","format":"html","name":"scan"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "a<br>b") {
		t.Errorf("Expected HTML body with line break, got %s", rec.Body.String())
	}
	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, `scan.html`) {
		t.Errorf("Expected attachment disposition, got %q", disposition)
	}
}

func TestExport_UnsupportedFormat(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodPost, "/api/v1/exports", `{"text":"a","format":"pdf"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDocumentCRUD(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	createRec := doJSON(e, http.MethodPost, "/api/v1/documents",
		`{"profileId":"p1","title":"Receipt","content":"total 10"}`)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", createRec.Code, createRec.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("Expected document ID in response, got %v", created)
	}

	getRec := doJSON(e, http.MethodGet, "/api/v1/documents/"+id, "")
	if getRec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", getRec.Code)
	}

	updateRec := doJSON(e, http.MethodPut, "/api/v1/documents/"+id,
		`{"title":"Receipt v2","content":"total 12"}`)
	if updateRec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", updateRec.Code, updateRec.Body.String())
	}
	if !strings.Contains(updateRec.Body.String(), "Receipt v2") {
		t.Errorf("Expected updated title in response, got %s", updateRec.Body.String())
	}

	deleteRec := doJSON(e, http.MethodDelete, "/api/v1/documents/"+id, "")
	if deleteRec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", deleteRec.Code)
	}

	missingRec := doJSON(e, http.MethodGet, "/api/v1/documents/"+id, "")
	if missingRec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", missingRec.Code)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodGet, "/api/v1/profiles/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestCreateProfile_InvalidEmail(t *testing.T) {
	e := newTestServer(t, okOCRBackend("x"))

	rec := doJSON(e, http.MethodPost, "/api/v1/profiles", `{"email":"nope","displayName":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
