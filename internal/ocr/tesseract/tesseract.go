package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"go-price-ocr/internal/ocr"
)

// Engine implements ocr.Engine with the gosseract bindings to libtesseract.
// gosseract clients are not safe for concurrent use, so every call gets its own.
type Engine struct {
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed OCR engine.
func NewEngine() *Engine {
	return &Engine{clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Version reports the linked libtesseract version, e.g. "tesseract 5.3.0".
func (e *Engine) Version() string {
	return "tesseract " + gosseract.Version()
}

// Recognize runs Tesseract over img using cfg. The call blocks until the
// engine returns; ctx is only consulted before recognition starts.
func (e *Engine) Recognize(ctx context.Context, img image.Image, cfg ocr.EngineConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()

	if err := configure(c, cfg); err != nil {
		return "", err
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

func configure(c *gosseract.Client, cfg ocr.EngineConfig) error {
	if prefix := cfg.TessdataPrefix(); prefix != "" {
		if err := c.SetTessdataPrefix(prefix); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if langs := cfg.Languages(); len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode())); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	if wl := cfg.Whitelist(); wl != "" {
		if err := c.SetWhitelist(wl); err != nil {
			return fmt.Errorf("set whitelist: %w", err)
		}
	}
	return nil
}
