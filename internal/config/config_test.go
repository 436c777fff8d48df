package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SYNC_THRESHOLD", "")
	t.Setenv("CATALOG_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.SyncThreshold)
	assert.Equal(t, 2000, cfg.ImportPageLimit)
	assert.Equal(t, 30*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, "@hourly", cfg.SyncSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SYNC_THRESHOLD", "10")
	t.Setenv("IMAGE_TIMEOUT", "5s")
	t.Setenv("MINIO_SECURE", "true")
	t.Setenv("BOOTSTRAP_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.SyncThreshold)
	assert.Equal(t, 5*time.Second, cfg.ImageTimeout)
	assert.True(t, cfg.MinioSecure)
	assert.False(t, cfg.BootstrapOnStart)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SYNC_THRESHOLD", "lots")
	t.Setenv("CATALOG_TIMEOUT", "soon")

	assert.Equal(t, 7, getEnvAsInt("SYNC_THRESHOLD", 7))
	assert.Equal(t, time.Minute, getEnvAsDuration("CATALOG_TIMEOUT", time.Minute))
}
