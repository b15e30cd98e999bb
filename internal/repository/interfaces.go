package repository

import "context"

// ImageRepository resolves an image_url to raw image bytes.
type ImageRepository interface {
	// FetchImage validates imageURL and downloads it.
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}
