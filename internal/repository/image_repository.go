package repository

import (
	"context"
	stderrors "errors"

	"github.com/sirupsen/logrus"

	apperrors "go-price-ocr/internal/errors"
	"go-price-ocr/internal/logger"
	"go-price-ocr/internal/storage"
	"go-price-ocr/pkg/validation"
)

// URLImageRepository fetches images over HTTP, or from Azure Blob Storage when
// the URL points at a blob endpoint and blob credentials are configured.
type URLImageRepository struct {
	validator *validation.URLValidator
	fetcher   storage.ImageFetcher
	blobs     storage.BlobStorage // nil when Azure is not configured
}

// NewURLImageRepository creates a repository. blobs may be nil.
func NewURLImageRepository(validator *validation.URLValidator, fetcher storage.ImageFetcher, blobs storage.BlobStorage) *URLImageRepository {
	return &URLImageRepository{
		validator: validator,
		fetcher:   fetcher,
		blobs:     blobs,
	}
}

// FetchImage returns the bytes behind imageURL. Validation failures are
// validation AppErrors, deadline overruns are timeout AppErrors and every
// other failure is a network AppError.
func (r *URLImageRepository) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	parsed, err := r.validator.ValidateImageURL(imageURL)
	if err != nil {
		return nil, err
	}

	source := "http"
	fetch := r.fetcher.FetchImage
	if r.blobs != nil && storage.IsBlobURL(parsed.Hostname()) {
		source = "azure_blob"
		fetch = r.blobs.GetImage
	}

	data, err := fetch(ctx, parsed.String())
	if err != nil {
		logger.WithFields(logrus.Fields{
			"source": source,
			"host":   parsed.Hostname(),
			"error":  err.Error(),
		}).Warn("Image fetch failed")

		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("Timed out fetching image", err)
		}
		return nil, apperrors.NewNetworkError("Failed to fetch image", err)
	}

	logger.WithFields(logrus.Fields{
		"source": source,
		"host":   parsed.Hostname(),
		"bytes":  len(data),
	}).Debug("Image fetched")
	return data, nil
}
