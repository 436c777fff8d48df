package app

import (
	"context"

	"github.com/go-faster/errors"

	"wpsync/internal/api/handlers"
	"wpsync/internal/config"
	"wpsync/internal/connectors/woocommerce"
	"wpsync/internal/database"
	"wpsync/internal/logger"
	"wpsync/internal/media"
	"wpsync/internal/services/catalog"
	"wpsync/internal/syncer"
	"wpsync/internal/worker"
	"wpsync/internal/worker/events"
)

// App holds the wired stores and the sync service shared by both binaries.
type App struct {
	Config      *config.Config
	DB          *database.Database
	Products    *database.ProductStore
	Attachments *database.AttachmentStore
	Runs        *database.RunStore
	Media       *media.Store
	Service     *syncer.Service

	logger    *logger.Logger
	publisher *events.Publisher
	inline    *worker.Inline
}

// Build opens the database and wires the sync pipeline. A store that
// cannot be reached or migrated is returned as an error.
func Build(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*App, error) {
	db, err := database.New(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobs(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	products := database.NewProductStore(db.DB)
	attachments := database.NewAttachmentStore(db.DB)
	runs := database.NewRunStore(db.DB)
	mediaStore := media.NewStore(attachments, blobs, cfg.MediaBaseURL)

	resolver := media.NewResolver(mediaStore, cfg.ImageTimeout, logger)
	transformer := catalog.NewTransformer(resolver)
	client := catalog.NewClient(cfg.CatalogAPIURL, cfg.CatalogTimeout, logger)

	service := syncer.NewService(
		client,
		syncer.NewReconciler(products, transformer, logger),
		woocommerce.NewImporter(products, transformer, logger),
		runs,
		logger,
		syncer.Options{
			Threshold:   cfg.SyncThreshold,
			ImportLimit: cfg.ImportPageLimit,
		},
	)

	return &App{
		Config:      cfg,
		DB:          db,
		Products:    products,
		Attachments: attachments,
		Runs:        runs,
		Media:       mediaStore,
		Service:     service,
		logger:      logger,
	}, nil
}

// Publisher returns where API triggers go: Kafka when brokers are
// configured, otherwise this process.
func (a *App) Publisher() handlers.Publisher {
	if brokers := events.Brokers(a.Config.KafkaBrokers); len(brokers) > 0 {
		if a.publisher == nil {
			a.publisher = events.NewPublisher(brokers, a.Config.KafkaTopic)
		}
		return a.publisher
	}
	if a.inline == nil {
		a.inline = worker.NewInline(a.Service, a.Service.Running, a.logger)
	}
	return a.inline
}

func (a *App) Close() error {
	if a.inline != nil {
		a.inline.Wait()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to close publisher: %v", err)
		}
	}
	return a.DB.Close()
}

func newBlobs(ctx context.Context, cfg *config.Config) (media.Blobs, error) {
	switch cfg.MediaBackend {
	case "local":
		return media.NewLocalBlobs(cfg.MediaRoot), nil
	case "memory":
		return media.NewMemoryBlobs(), nil
	case "minio":
		return media.NewMinioBlobs(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioSecure)
	default:
		return nil, errors.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}
