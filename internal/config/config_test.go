package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.App.Port)
	assert.Equal(t, "images", cfg.Mongo.Collection)
	assert.Equal(t, ProviderCloudinary, cfg.Media.Provider)
	assert.Equal(t, "uploads", cfg.Media.Folder)
	assert.Equal(t, 50*1024*1024, cfg.BodyLimit())
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
app:
  env: development
  port: 8080
mongodb:
  uri: mongodb://file:27017
  database: photos
media:
  provider: s3
aws:
  bucket: gallery
kafka:
  brokers: ["k1:9092"]
`)
	t.Setenv("MONGODB_DATABASE", "fromenv")
	t.Setenv("S3_THUMBNAILS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Development())
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "mongodb://file:27017", cfg.Mongo.URI)
	assert.Equal(t, "fromenv", cfg.Mongo.Database)
	assert.Equal(t, ProviderS3, cfg.Media.Provider)
	assert.True(t, cfg.S3.Thumbnails)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
	assert.NoError(t, cfg.Validate())
}

func TestLegacyEnvNames(t *testing.T) {
	t.Setenv("URL", "mongodb://legacy:27017")
	t.Setenv("CLOUD_NAME", "demo")
	t.Setenv("API_KEY", "key")
	t.Setenv("API_SECRET", "secret")
	t.Setenv("PORT", "5000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://legacy:27017", cfg.Mongo.URI)
	assert.Equal(t, "demo", cfg.Cloudinary.CloudName)
	assert.Equal(t, "key", cfg.Cloudinary.APIKey)
	assert.Equal(t, "secret", cfg.Cloudinary.APISecret)
	assert.Equal(t, 5000, cfg.App.Port)
	assert.NoError(t, cfg.Validate())
}

func TestSectionEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("URL", "mongodb://legacy:27017")
	t.Setenv("MONGODB_URI", "mongodb://new:27017")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://new:27017", cfg.Mongo.URI)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = 4000
	cfg.Media.Provider = ProviderCloudinary

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongodb.uri")
	assert.Contains(t, err.Error(), "cloudinary")

	cfg.Media.Provider = "ftp"
	assert.ErrorContains(t, cfg.Validate(), `unknown media.provider "ftp"`)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := writeConfig(t, "app: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}
