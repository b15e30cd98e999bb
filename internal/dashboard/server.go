package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-price-ocr/internal/logger"
)

// Pages are the dashboards served from the root directory.
var Pages = []string{
	"real_time_dashboard.html",
	"monitoring_dashboard.html",
}

// NewHandler serves files below rootDir with permissive CORS headers on every
// response. OPTIONS is answered with an empty 200; methods other than GET,
// HEAD and OPTIONS get 501.
func NewHandler(rootDir string) http.Handler {
	r := gin.New()
	r.Use(accessLog(), gin.Recovery(), cors())

	files := http.FileServer(http.Dir(rootDir))
	r.NoRoute(func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			files.ServeHTTP(c.Writer, c.Request)
		default:
			c.String(http.StatusNotImplemented, "Unsupported method (%s)", c.Request.Method)
		}
	})

	return r
}

// cors adds the dashboard's CORS headers and short-circuits preflight requests.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}).Info("Dashboard request")
	}
}
