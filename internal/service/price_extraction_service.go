package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	apperrors "go-price-ocr/internal/errors"
	"go-price-ocr/internal/extractor"
	"go-price-ocr/internal/observer"
	"go-price-ocr/internal/repository"
	"go-price-ocr/pkg/models"
)

// ImageSource names where a request's image came from.
type ImageSource string

const (
	SourceFile      ImageSource = "file"
	SourceImageData ImageSource = "image_data"
	SourceImageURL  ImageSource = "image_url"
)

// ErrNoImageProvided is the message returned when a request names no image.
const ErrNoImageProvided = "No image provided"

// ExtractionRequest carries every image source a request may hold. When more
// than one is present the first in this order wins: uploaded file, base64
// image_data, image_url.
type ExtractionRequest struct {
	RequestID    string
	ImageFile    []byte
	HasFile      bool
	ImageData    *string
	ImageURL     string
	BBox         []float64
	ExpectedText string
}

// PriceExtractionService resolves a request's image and runs price extraction.
type PriceExtractionService interface {
	// ExtractPrice returns the extraction result. An error means the request
	// itself could not be processed; extraction failures are reported inside
	// the result.
	ExtractPrice(ctx context.Context, req ExtractionRequest) (*models.PriceResult, error)
}

type priceExtractionService struct {
	extractor    *extractor.Extractor
	imageRepo    repository.ImageRepository
	events       observer.Subject
	fetchTimeout time.Duration
}

// NewPriceExtractionService wires the extractor with the image_url repository
// and the event publisher. imageRepo and events may be nil.
func NewPriceExtractionService(
	ex *extractor.Extractor,
	imageRepo repository.ImageRepository,
	events observer.Subject,
	fetchTimeout time.Duration,
) PriceExtractionService {
	return &priceExtractionService{
		extractor:    ex,
		imageRepo:    imageRepo,
		events:       events,
		fetchTimeout: fetchTimeout,
	}
}

func (s *priceExtractionService) ExtractPrice(ctx context.Context, req ExtractionRequest) (*models.PriceResult, error) {
	start := time.Now()

	source, data, err := s.resolveImage(ctx, req)
	if err != nil {
		s.publish(ctx, observer.ExtractionEvent{
			EventType:      observer.ExtractionFailed,
			RequestID:      req.RequestID,
			Source:         string(source),
			ProcessingTime: time.Since(start),
			ErrorMessage:   apperrors.PublicMessage(err),
		})
		return nil, err
	}

	bbox, hasBBox := extractor.BoundingBoxFromSlice(req.BBox)
	s.publish(ctx, observer.ExtractionEvent{
		EventType: observer.ExtractionStarted,
		RequestID: req.RequestID,
		Source:    string(source),
		Metadata: map[string]interface{}{
			"image_bytes": len(data),
			"bbox":        hasBBox,
		},
	})

	result := s.extractor.Extract(ctx, data, bbox)
	if req.ExpectedText != "" && result.RawText != nil {
		result.Match = extractor.CompareText(req.ExpectedText, result.Text())
	}

	event := observer.ExtractionEvent{
		EventType:      observer.ExtractionCompleted,
		RequestID:      req.RequestID,
		Source:         string(source),
		ProcessingTime: time.Since(start),
		Success:        result.Success,
		Price:          result.Price,
		ErrorMessage:   result.Error,
	}
	if result.Match != nil {
		event.Metadata = map[string]interface{}{"cer": result.Match.CER}
	}
	if !result.Success && result.Error != models.ErrNoNumericValue {
		event.EventType = observer.ExtractionFailed
	}
	s.publish(ctx, event)

	return &result, nil
}

// resolveImage applies the source precedence and returns the image bytes.
func (s *priceExtractionService) resolveImage(ctx context.Context, req ExtractionRequest) (ImageSource, []byte, error) {
	switch {
	case req.HasFile:
		return SourceFile, req.ImageFile, nil

	case req.ImageData != nil:
		data, err := decodeBase64(*req.ImageData)
		if err != nil {
			return SourceImageData, nil, apperrors.NewInternalError("Invalid base64 image data: "+err.Error(), err)
		}
		return SourceImageData, data, nil

	case strings.TrimSpace(req.ImageURL) != "":
		if s.imageRepo == nil {
			return SourceImageURL, nil, apperrors.NewValidationError("image_url is not supported", nil)
		}
		fetchCtx := ctx
		if s.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()
		}
		data, err := s.imageRepo.FetchImage(fetchCtx, req.ImageURL)
		if err != nil {
			return SourceImageURL, nil, err
		}
		return SourceImageURL, data, nil
	}

	return "", nil, apperrors.NewValidationError(ErrNoImageProvided, nil)
}

func (s *priceExtractionService) publish(ctx context.Context, event observer.ExtractionEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

// decodeBase64 accepts padded or unpadded standard base64. Embedded
// whitespace and line breaks are ignored.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
