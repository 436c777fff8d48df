package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string
	KafkaTopic   string

	// API Configuration
	APIPort string
	APIHost string

	// Remote catalog
	CatalogAPIURL  string
	CatalogTimeout time.Duration
	ImageTimeout   time.Duration

	// Sync
	SyncThreshold    int
	ImportPageLimit  int
	SyncSchedule     string
	BootstrapOnStart bool

	// Media
	MediaBackend string
	MediaRoot    string
	MediaBaseURL string

	// MinIO / S3
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", "sqlite://wpsync.db"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "catalog-sync"),
		APIPort:          getEnv("API_PORT", "8080"),
		APIHost:          getEnv("API_HOST", "0.0.0.0"),
		CatalogAPIURL:    getEnv("CATALOG_API_URL", "https://wp.webspark.dev/wp-api/products"),
		CatalogTimeout:   getEnvAsDuration("CATALOG_TIMEOUT", 30*time.Second),
		ImageTimeout:     getEnvAsDuration("IMAGE_TIMEOUT", 60*time.Second),
		SyncThreshold:    getEnvAsInt("SYNC_THRESHOLD", 2000),
		ImportPageLimit:  getEnvAsInt("IMPORT_PAGE_LIMIT", 2000),
		SyncSchedule:     getEnv("SYNC_SCHEDULE", "@hourly"),
		BootstrapOnStart: getEnvAsBool("BOOTSTRAP_ON_START", true),
		MediaBackend:     getEnv("MEDIA_BACKEND", "local"),
		MediaRoot:        getEnv("MEDIA_ROOT", "./uploads"),
		MediaBaseURL:     getEnv("MEDIA_BASE_URL", "http://localhost:8080/media"),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:      getEnv("MINIO_BUCKET", "wpsync-media"),
		MinioSecure:      getEnvAsBool("MINIO_SECURE", false),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
