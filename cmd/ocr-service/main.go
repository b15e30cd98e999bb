package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-price-ocr/internal/config"
	"go-price-ocr/internal/container"
	"go-price-ocr/internal/logger"
	"go-price-ocr/internal/ocr/tesseract"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Configure(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := tesseract.NewEngine()

	c, err := container.NewContainer(cfg, engine)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}

	engineConfig := c.EngineConfig()
	logger.WithFields(logrus.Fields{
		"engine":         engine.Name(),
		"version":        engine.Version(),
		"languages":      engineConfig.Languages(),
		"page_seg_mode":  engineConfig.PageSegMode(),
		"whitelist":      engineConfig.Whitelist(),
		"azure_enabled":  cfg.AzureEnabled(),
		"max_body_bytes": cfg.MaxRequestBodySize,
	}).Info("OCR engine ready")

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.ServerAddress(),
			"timeout": cfg.RequestTimeout,
		}).Info("Starting price extraction service")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.WithFields(c.Metrics()).Info("Server exited")
}
