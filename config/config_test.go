package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CorsOrigins)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "AUTH_TOKEN_SECRET=from-file\nSTORE_DRIVER=postgres\nSTORE_DSN=host=db user=pos\nCORS_ORIGINS=https://a.example,https://b.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	// godotenv never overrides variables already set
	t.Setenv("AUTH_TOKEN_SECRET", "from-env")
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("STORE_DSN")
		os.Unsetenv("CORS_ORIGINS")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.TokenSecret)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "host=db user=pos", cfg.Store.DSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestLoadRejectsBadSettings(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("secret required", func(t *testing.T) {
		os.Unsetenv("AUTH_TOKEN_SECRET")
		_, err := Load(missing)
		assert.Error(t, err)
	})

	t.Run("relational driver needs dsn", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_SECRET", "x")
		t.Setenv("STORE_DRIVER", "mysql")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "STORE_DSN")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_SECRET", "x")
		t.Setenv("STORE_DRIVER", "cassandra")
		_, err := Load(missing)
		assert.ErrorContains(t, err, "cassandra")
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_SECRET", "x")
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := Load(missing)
		assert.Error(t, err)
	})
}
