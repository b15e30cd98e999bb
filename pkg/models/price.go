package models

const (
	// ConfidenceMarker is reported for every successful extraction. It is a
	// fixed marker; the engine's own confidence is not consulted.
	ConfidenceMarker = 100

	// StrategyRawOCR names the only extraction strategy: the first number in
	// the raw recognized text.
	StrategyRawOCR = "raw_ocr"

	// ErrNoNumericValue is the error text for a recognition that produced no number.
	ErrNoNumericValue = "No numeric value found"
)

// PriceResult is the outcome of a single price extraction. Pointer fields are
// omitted from the JSON body when they do not apply, so the three shapes
// (success, no number, failure) serialize exactly as clients expect.
type PriceResult struct {
	Success       bool       `json:"success"`
	Price         *float64   `json:"price,omitempty"`
	ExtractedText *string    `json:"extracted_text,omitempty"`
	RawText       *string    `json:"raw_text,omitempty"`
	Confidence    *int       `json:"confidence,omitempty"`
	Strategy      string     `json:"strategy,omitempty"`
	Error         string     `json:"error,omitempty"`
	Match         *TextMatch `json:"match,omitempty"`
}

// TextMatch compares the recognized text against a caller supplied expectation.
type TextMatch struct {
	ExpectedText string  `json:"expected_text"`
	Distance     int     `json:"distance"`
	CER          float64 `json:"cer"`
	Exact        bool    `json:"exact"`
}

// NewPriceSuccess builds the result for a recognized price.
func NewPriceSuccess(price float64, text string) PriceResult {
	confidence := ConfidenceMarker
	return PriceResult{
		Success:       true,
		Price:         &price,
		ExtractedText: stringPtr(text),
		RawText:       stringPtr(text),
		Confidence:    &confidence,
		Strategy:      StrategyRawOCR,
	}
}

// NewPriceNotFound builds the result for text that holds no number. The raw
// text is kept for diagnostics.
func NewPriceNotFound(text string) PriceResult {
	return PriceResult{
		Success:       false,
		Error:         ErrNoNumericValue,
		ExtractedText: stringPtr(text),
		RawText:       stringPtr(text),
	}
}

// NewPriceFailure builds the result for an extraction that failed outright.
func NewPriceFailure(message string) PriceResult {
	return PriceResult{
		Success: false,
		Error:   message,
	}
}

// Text returns the recognized text, or "" when recognition never ran.
func (r PriceResult) Text() string {
	if r.RawText == nil {
		return ""
	}
	return *r.RawText
}

func stringPtr(s string) *string {
	return &s
}
