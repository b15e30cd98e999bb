package transport

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "go-price-ocr/internal/errors"
	"go-price-ocr/internal/service"
	"go-price-ocr/pkg/models"
)

const multipartMemory = 32 << 20

// parseExtractionRequest reads either a multipart form (file field "image")
// or a JSON body. Unreadable or malformed bodies are internal errors.
func parseExtractionRequest(c *gin.Context) (service.ExtractionRequest, error) {
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		return parseMultipart(c)
	}
	return parseJSON(c)
}

func parseJSON(c *gin.Context) (service.ExtractionRequest, error) {
	var out service.ExtractionRequest

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return out, bodyError(err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}

	var req models.ExtractPriceRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		return out, apperrors.NewInternalError("Invalid JSON body: "+err.Error(), err)
	}
	if req.ImageData == nil && hasKey(body, "image_data") {
		return out, apperrors.NewInternalError("image_data must be a base64 string, got null", nil)
	}

	out.ImageData = req.ImageData
	out.ImageURL = req.ImageURL
	out.BBox = req.BBox
	out.ExpectedText = req.ExpectedText
	return out, nil
}

// hasKey reports whether the top-level JSON object in body names key, even
// when its value is null.
func hasKey(body []byte, key string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	_, ok := fields[key]
	return ok
}

func parseMultipart(c *gin.Context) (service.ExtractionRequest, error) {
	var out service.ExtractionRequest

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return out, bodyError(err)
	}

	file, _, err := c.Request.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return out, apperrors.NewInternalError("Failed to read uploaded image: "+err.Error(), err)
		}
		out.ImageFile = data
		out.HasFile = true
	case !stderrors.Is(err, http.ErrMissingFile):
		return out, apperrors.NewInternalError("Failed to read uploaded image: "+err.Error(), err)
	}

	out.BBox = parseBBoxField(c.PostForm("bbox"))
	out.ImageURL = c.PostForm("image_url")
	out.ExpectedText = c.PostForm("expected_text")
	return out, nil
}

// parseBBoxField accepts "[x1, y1, x2, y2]" or "x1,y1,x2,y2". Anything it
// cannot read yields nil, which means the whole image is used.
func parseBBoxField(raw string) []float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var v []float64
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil
		}
		return v
	}

	parts := strings.Split(raw, ",")
	v := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		v = append(v, f)
	}
	return v
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return apperrors.NewInternalError("Request body too large", err)
	}
	return apperrors.NewInternalError("Failed to read request body: "+err.Error(), err)
}
