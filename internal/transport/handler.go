package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-price-ocr/internal/config"
	apperrors "go-price-ocr/internal/errors"
	"go-price-ocr/internal/logger"
	"go-price-ocr/internal/ocr"
	"go-price-ocr/internal/service"
	"go-price-ocr/pkg/models"
)

const (
	serviceName    = "simple_ocr"
	serviceVersion = "1.0.0"
)

var features = []string{
	"Numeric value extraction only",
	"YOLO region cropping",
	"Multiple number format support",
	"Simple and fast processing",
}

// NewHandler builds the price extraction HTTP API.
func NewHandler(svc service.PriceExtractionService, engine ocr.Engine, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		requestID(),
		requestLogger(),
		recovery(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.GET("/test", engineInfo(engine))
	r.POST("/extract-price", extractPrice(svc, cfg))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}

func engineInfo(engine ocr.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.EngineInfoResponse{
			Message:          "Simple OCR service is running",
			TesseractVersion: engine.Version(),
			Features:         features,
		})
	}
}

func extractPrice(svc service.PriceExtractionService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeoutOrDefault(cfg.RequestTimeout))
		defer cancel()

		req, err := parseExtractionRequest(c)
		if err != nil {
			respondError(c, err)
			return
		}
		req.RequestID = c.GetString(requestIDKey)

		result, err := svc.ExtractPrice(ctx, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// respondError writes err using its AppError status. Validation errors carry
// only an error field; everything else also reports success=false.
func respondError(c *gin.Context, err error) {
	code := apperrors.GetStatusCode(err)
	message := apperrors.PublicMessage(err)

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
		"request_id":  c.GetString(requestIDKey),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		c.AbortWithStatusJSON(code, models.ErrorResponse{Error: message})
		return
	}
	c.AbortWithStatusJSON(code, models.FailureResponse{Success: false, Error: message})
}

func requestTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
