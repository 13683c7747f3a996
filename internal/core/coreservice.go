package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jo-hoe/docscan/internal/database"
	"github.com/jo-hoe/docscan/internal/export"
	"github.com/jo-hoe/docscan/internal/history"
	"github.com/jo-hoe/docscan/internal/imaging"
	"github.com/jo-hoe/docscan/internal/kvstore"
	"github.com/jo-hoe/docscan/internal/metrics"
	"github.com/jo-hoe/docscan/internal/ocr"
	"github.com/jo-hoe/docscan/internal/settings"
)

// TextExtractor is the OCR dependency of the scan pipeline.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, lang settings.Language) (string, error)
}

// CoreService wires storage, preference stores, the image optimizer and the
// OCR client into the scan workflow used by the HTTP layer.
type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	kv              kvstore.Store
	languageStore   *settings.LanguageStore
	pinStore        *settings.PinStore
	historyStore    *history.Store
	extractor       TextExtractor
	exporter        *export.Exporter
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	kv, err := kvstore.NewStore(config.KVStore.Type, config.KVStore.Address)
	if err != nil {
		_ = databaseService.Close()
		return nil, fmt.Errorf("failed to initialize key-value store: %w", err)
	}

	extractor := ocr.NewClient(config.OCR.Endpoint, config.OCR.APIKey,
		time.Duration(config.OCR.TimeoutSeconds)*time.Second)

	return newCoreService(config, databaseService, kv, extractor), nil
}

// newCoreService assembles a service from prebuilt dependencies. Tests use
// it to substitute the OCR client.
func newCoreService(config *ServiceConfig, databaseService database.DatabaseService,
	kv kvstore.Store, extractor TextExtractor) *CoreService {
	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		kv:              kv,
		languageStore:   settings.NewLanguageStore(kv),
		pinStore:        settings.NewPinStore(kv),
		historyStore:    history.NewStore(kv),
		extractor:       extractor,
		exporter:        export.NewExporter(config.Export.Directory),
	}

	// Adopt persisted preference and history state before serving.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	service.languageStore.Load(ctx)
	service.pinStore.Load(ctx)
	service.historyStore.Load(ctx)

	return service
}

// ProcessScan runs the full pipeline for one uploaded image: optimize,
// store the optimized image, extract text, record the scan in the history.
func (service *CoreService) ProcessScan(ctx context.Context, image []byte) (*history.Scan, error) {
	opts := imaging.Options{
		MaxWidth:     service.config.Optimizer.MaxWidth,
		MaxHeight:    service.config.Optimizer.MaxHeight,
		Quality:      service.config.Optimizer.Quality,
		TargetSizeKB: service.config.Optimizer.TargetSizeKB,
	}
	result := imaging.Optimize(image, opts)
	if result.FellBack {
		metrics.RecordOptimizerFallback()
	}
	slog.Info("image optimized",
		"original_bytes", result.OriginalSize,
		"optimized_bytes", result.OptimizedSize,
		"ratio", result.CompressionRatio,
		"attempts", result.Attempts)

	contentType := "image/jpeg"
	if result.FellBack {
		contentType = http.DetectContentType(result.Data)
	}

	// A failed object write loses the image reference but not the scan.
	imageID, err := service.databaseService.PutObject(result.Data, contentType)
	if err != nil {
		slog.Warn("failed to store optimized image; scan continues without image reference", "error", err)
		imageID = ""
	}

	start := time.Now()
	text, err := service.extractor.ExtractText(ctx, result.Data, service.languageStore.Language())
	metrics.RecordOCRDuration(time.Since(start))
	if err != nil {
		metrics.RecordScan("error")
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	scan := history.Scan{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: time.Now().UTC(),
		ImageID:   imageID,
	}
	service.historyStore.Add(ctx, scan)
	metrics.RecordScan("ok")

	return &scan, nil
}

// ExportText renders text in the requested format and writes it into the
// export directory.
func (service *CoreService) ExportText(text string, format export.Format, baseName string) (string, []byte, error) {
	return service.exporter.Export(text, format, baseName)
}

func (service *CoreService) Database() database.DatabaseService {
	return service.databaseService
}

func (service *CoreService) Languages() *settings.LanguageStore {
	return service.languageStore
}

func (service *CoreService) Pin() *settings.PinStore {
	return service.pinStore
}

func (service *CoreService) History() *history.Store {
	return service.historyStore
}

func (service *CoreService) Close() error {
	return errors.Join(service.databaseService.Close(), service.kv.Close())
}
