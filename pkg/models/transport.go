package models

// ExtractPriceRequest is the JSON body accepted by POST /extract-price.
// ImageData is a pointer so that an explicitly empty string still counts as
// a provided image source.
type ExtractPriceRequest struct {
	ImageData    *string   `json:"image_data,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	BBox         []float64 `json:"bbox,omitempty"`
	ExpectedText string    `json:"expected_text,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// FailureResponse is returned with a 500 when a request could not be processed.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse is the fixed body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// EngineInfoResponse is the body of GET /test.
type EngineInfoResponse struct {
	Message          string   `json:"message"`
	TesseractVersion string   `json:"tesseract_version"`
	Features         []string `json:"features"`
}
