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
	"go-price-ocr/internal/dashboard"
	"go-price-ocr/internal/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	cfg := config.LoadDashboard(os.Args[1:], logger.Warn)
	logger.Configure(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           dashboard.NewHandler(cfg.RootDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.Address(),
			"root":    cfg.RootDir,
		}).Info("Starting dashboard server")
		for _, page := range dashboard.Pages {
			logger.Logger.Infof("Dashboard available at http://localhost:%d/%s", cfg.Port, page)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start dashboard server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down dashboard server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Dashboard forced to shutdown")
		return
	}

	logger.Info("Dashboard server stopped")
}
