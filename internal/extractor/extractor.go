package extractor

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"go-price-ocr/internal/logger"
	"go-price-ocr/internal/ocr"
	"go-price-ocr/pkg/models"
)

// Extractor turns image bytes into a single numeric price. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	engine ocr.Engine
	config ocr.EngineConfig
}

// NewExtractor creates an extractor that runs engine with cfg on every call.
func NewExtractor(engine ocr.Engine, cfg ocr.EngineConfig) *Extractor {
	return &Extractor{engine: engine, config: cfg}
}

// Extract decodes data, crops it to bbox when one is given, converts the region
// to grayscale, recognizes it and parses the first number. Failures are
// reported in the result; Extract never returns an error or panics.
func (e *Extractor) Extract(ctx context.Context, data []byte, bbox *BoundingBox) (result models.PriceResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(logrus.Fields{
				"engine": e.engine.Name(),
				"panic":  r,
			}).Error("Price extraction panicked")
			result = models.NewPriceFailure(fmt.Sprintf("%v", r))
		}
	}()

	img, err := decodeImage(data)
	if err != nil {
		logger.WithError(err).Warn("Failed to decode image")
		return models.NewPriceFailure(err.Error())
	}

	region := img
	if bbox != nil {
		region = crop(img, *bbox)
	}

	text, err := e.recognize(ctx, region)
	if err != nil {
		logger.WithError(err).WithField("engine", e.engine.Name()).Error("OCR engine failed")
		return models.NewPriceFailure(err.Error())
	}

	fields := logrus.Fields{
		"raw_text":    text,
		"duration_ms": time.Since(start).Milliseconds(),
	}

	price, ok := ExtractFirstNumber(text)
	if !ok {
		logger.WithFields(fields).Info("No numeric value found in recognized text")
		return models.NewPriceNotFound(text)
	}

	fields["price"] = price
	logger.WithFields(fields).Info("Price extracted")
	return models.NewPriceSuccess(price, text)
}

// recognize runs the engine over the grayscale version of img. Empty regions
// never reach the engine and read as empty text.
func (e *Extractor) recognize(ctx context.Context, img image.Image) (string, error) {
	if img.Bounds().Empty() {
		return "", nil
	}
	text, err := e.engine.Recognize(ctx, toGray(img), e.config)
	if err != nil {
		return "", fmt.Errorf("%s recognition failed: %w", e.engine.Name(), err)
	}
	return text, nil
}

// crop cuts the clamped bbox out of img. A box outside the image yields an
// empty image.
func crop(img image.Image, bbox BoundingBox) image.Image {
	b := img.Bounds()
	clamped := bbox.Clamp(b.Dx(), b.Dy())
	if clamped.Empty() {
		return image.NewGray(image.Rectangle{})
	}
	return imaging.Crop(img, clamped.Rect(b.Min))
}
