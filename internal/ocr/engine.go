package ocr

import (
	"context"
	"image"
)

// Engine recognizes text in an image. Implementations must be safe for
// concurrent use; each call receives the configuration it should apply.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string
	// Version is the engine's self-reported version string.
	Version() string
	// Recognize returns the raw text found in img.
	Recognize(ctx context.Context, img image.Image, cfg EngineConfig) (string, error)
}
