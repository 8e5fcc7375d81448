package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_PORT", "DB_DRIVER", "TOKEN_TTL", "BCRYPT_COST", "CORS_ORIGINS", "CLOUDINARY_CLOUD_NAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.CloudinaryEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("JWT_SECRET", "top")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.True(t, cfg.CloudinaryEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	a := cfg.Auth()
	assert.Equal(t, "top", a.Secret)
	assert.Equal(t, 90*time.Minute, a.TokenTTL)
	assert.Equal(t, 12, a.BcryptCost)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "forever")
	t.Setenv("BCRYPT_COST", "high")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}
