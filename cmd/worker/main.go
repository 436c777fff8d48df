package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wpsync/internal/app"
	"wpsync/internal/config"
	"wpsync/internal/logger"
	"wpsync/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Product store unavailable: %v", err)
	}
	defer a.Close()

	// Initialize worker
	w, err := worker.New(cfg, logger, a.Service, a.Runs)
	if err != nil {
		logger.Fatal("Failed to initialize worker: %v", err)
	}

	// Start worker
	logger.Info("Starting worker...")
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	w.Stop()
}
