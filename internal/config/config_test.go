package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears a variable for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	unsetEnv(t, "DATABASE_URL")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/doclave_test")
	for _, key := range []string{
		"ENVIRONMENT", "JWT_SECRET", "PORT", "STORAGE_BACKEND",
		"MAX_UPLOAD_SIZE_MB", "ALLOWED_ORIGINS", "FROM_EMAIL",
	} {
		unsetEnv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, int64(10), cfg.MaxUploadSizeMB)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "dev-secret-change-in-production", cfg.JWTSecret)
	assert.Equal(t, "noreply@doclave.app", cfg.FromEmail)
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/doclave_test")
	t.Setenv("ENVIRONMENT", "production")
	unsetEnv(t, "JWT_SECRET")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/doclave_test")
	t.Setenv("STORAGE_BACKEND", "s3")
	unsetEnv(t, "ENVIRONMENT")
	unsetEnv(t, "S3_BUCKET")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestLoad_AllowedOriginsSplit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/doclave_test")
	t.Setenv("ALLOWED_ORIGINS", "https://app.doclave.io,https://staging.doclave.io")
	unsetEnv(t, "ENVIRONMENT")
	unsetEnv(t, "STORAGE_BACKEND")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.doclave.io", "https://staging.doclave.io"}, cfg.AllowedOrigins)
}
