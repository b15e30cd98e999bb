// Package ocrclient calls the price extraction service over HTTP.
package ocrclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"go-price-ocr/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultBaseURL = "http://ocr-service:5000"
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response is quoted in errors.
	maxErrorBody = 1024
)

// Client talks to one price extraction service instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New returns a client for baseURL, or DefaultBaseURL when it is empty.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthCheck returns an error unless GET /health answers 200.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("OCR service health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OCR service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// ExtractPrice sends image with an optional bbox and returns the service's
// result. A 200 response with success=false is returned without error; any
// other status is an error carrying the status and body.
func (c *Client) ExtractPrice(ctx context.Context, image []byte, bbox []float64) (*models.PriceResult, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	payload, err := json.Marshal(models.ExtractPriceRequest{
		ImageData: &encoded,
		BBox:      bbox,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract-price", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("OCR service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result models.PriceResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode OCR response: %w", err)
	}
	return &result, nil
}

// ExpandBoundingBox grows bbox around its centre by factor. A bbox that does
// not have four components is returned unchanged. Coordinates are not clamped;
// the service clamps them to the image.
func ExpandBoundingBox(bbox []float64, factor float64) []float64 {
	if len(bbox) != 4 {
		return bbox
	}
	x1, y1, x2, y2 := bbox[0], bbox[1], bbox[2], bbox[3]

	cx, cy := (x1+x2)/2, (y1+y2)/2
	halfW := (x2 - x1) * factor / 2
	halfH := (y2 - y1) * factor / 2

	return []float64{cx - halfW, cy - halfH, cx + halfW, cy + halfH}
}
