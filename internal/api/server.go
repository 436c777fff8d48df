package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wpsync/internal/api/handlers"
	"wpsync/internal/api/middleware"
	"wpsync/internal/config"
	"wpsync/internal/logger"

	"github.com/gin-gonic/gin"
)

// Deps are the stores and services the HTTP surface reads from.
type Deps struct {
	Products    handlers.ProductReader
	Attachments handlers.AttachmentReader
	Runs        handlers.RunReader
	Publisher   handlers.Publisher
	// Running reports whether this process is executing a run. Optional.
	Running  func() bool
	MediaURL func(file string) string
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, deps Deps) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	productHandler := handlers.NewProductHandler(deps.Products, logger)
	attachmentHandler := handlers.NewAttachmentHandler(deps.Attachments, deps.MediaURL, logger)
	syncHandler := handlers.NewSyncHandler(deps.Publisher, deps.Runs, deps.Running, logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploaded media, local backend only
	if cfg.MediaBackend == "local" {
		router.Static("/media", cfg.MediaRoot)
	}

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}

		// Attachments
		v1.GET("/attachments/:id", attachmentHandler.Get)

		// Sync
		sync := v1.Group("/sync")
		{
			sync.POST("", syncHandler.Trigger)
			sync.POST("/import", syncHandler.Import)
			sync.GET("/status", syncHandler.Status)
			sync.GET("/runs", syncHandler.Runs)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
