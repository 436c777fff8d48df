package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"

	"wpsync/internal/api"
	"wpsync/internal/app"
	"wpsync/internal/config"
	"wpsync/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database and sync pipeline
	ctx := context.Background()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Product store unavailable: %v", err)
	}

	// Initialize API server
	server := api.New(cfg, logger, api.Deps{
		Products:    a.Products,
		Attachments: a.Attachments,
		Runs:        a.Runs,
		Publisher:   a.Publisher(),
		Running:     a.Service.Running,
		MediaURL:    a.Media.URL,
	})

	go func() {
		logger.Info("Starting API server on port " + cfg.APIPort)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	if err := a.Close(); err != nil {
		logger.Error("Failed to close database: %v", err)
	}
}
