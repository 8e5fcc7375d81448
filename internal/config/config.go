package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"schoolms/internal/auth"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env              string
	LogLevel         string
	HTTPPort         string
	DBDriver         string
	DatabaseURL      string
	RedisAddr        string
	JWTIssuer        string
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	RateLimitPerMin  int
	RateLimitBackend string
	CORSOrigins      []string
	WebDir           string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// Load reads an optional .env file and returns config populated from environment variables with defaults.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}

	return App{
		Env:              getEnv("APP_ENV", "dev"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPPort:         getEnv("HTTP_PORT", "3000"),
		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL:      getEnv("DATABASE_URL", "file:school.db?_foreign_keys=on"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", "schoolms"),
		JWTSecret:        getEnv("JWT_SECRET", "dev-signing-secret-change"),
		TokenTTL:         durationEnv("TOKEN_TTL", 24*time.Hour),
		BcryptCost:       intEnv("BCRYPT_COST", 10),
		RateLimitPerMin:  intEnv("RATE_LIMIT_PER_MIN", 120),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		CORSOrigins:      listEnv("CORS_ORIGINS", []string{"*"}),
		WebDir:           getEnv("WEB_DIR", "web"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", ""),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@school.com"),
	}
}

// Production reports whether the app runs with production settings.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

// Auth returns the settings shared by the credential and token services.
func (a App) Auth() auth.Config {
	return auth.Config{
		Secret:     a.JWTSecret,
		Issuer:     a.JWTIssuer,
		TokenTTL:   a.TokenTTL,
		BcryptCost: a.BcryptCost,
	}
}

// CloudinaryEnabled reports whether avatar uploads can be served.
func (a App) CloudinaryEnabled() bool {
	return a.CloudinaryCloudName != "" && a.CloudinaryAPIKey != "" && a.CloudinaryAPISecret != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			slog.Warn("invalid duration, using fallback", "key", key, "error", err, "fallback", fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		slog.Warn("invalid int, using fallback", "key", key, "fallback", fallback)
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
