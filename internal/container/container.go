package container

import (
	"fmt"
	"net/http"

	"go-price-ocr/internal/config"
	"go-price-ocr/internal/extractor"
	"go-price-ocr/internal/logger"
	"go-price-ocr/internal/observer"
	"go-price-ocr/internal/ocr"
	"go-price-ocr/internal/repository"
	"go-price-ocr/internal/service"
	"go-price-ocr/internal/storage"
	"go-price-ocr/internal/transport"
	"go-price-ocr/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	engineConfig ocr.EngineConfig
	metrics      *observer.MetricsObserver
	handler      http.Handler
}

// EngineConfigFrom builds the recognition configuration from cfg.
func EngineConfigFrom(cfg *config.Config) ocr.EngineConfig {
	return ocr.PriceConfig().
		WithLanguages(ocr.ParseLanguages(cfg.OCRLanguage)...).
		WithTessdataPrefix(cfg.TessdataPrefix)
}

// NewContainer builds the dependency graph around engine.
func NewContainer(cfg *config.Config, engine ocr.Engine) (*Container, error) {
	engineConfig := EngineConfigFrom(cfg)
	ex := extractor.NewExtractor(engine, engineConfig)

	fetcher := storage.NewHTTPImageFetcher(storage.FetcherOptions{
		Timeout:  cfg.ImageFetchTimeout,
		MaxBytes: cfg.MaxRequestBodySize,
	})

	var blobs storage.BlobStorage
	if cfg.AzureEnabled() {
		var err error
		blobs, err = storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.MaxRequestBodySize)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
		}
	}

	validator := validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.AllowedImageHosts)
	imageRepository := repository.NewURLImageRepository(validator, fetcher, blobs)

	events := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	priceService := service.NewPriceExtractionService(ex, imageRepository, events, cfg.ImageFetchTimeout)

	return &Container{
		engineConfig: engineConfig,
		metrics:      metrics,
		handler:      transport.NewHandler(priceService, engine, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// EngineConfig returns the recognition configuration shared by every request.
func (c *Container) EngineConfig() ocr.EngineConfig {
	return c.engineConfig
}

// Metrics returns extraction counters collected since startup.
func (c *Container) Metrics() map[string]interface{} {
	return c.metrics.Snapshot()
}
