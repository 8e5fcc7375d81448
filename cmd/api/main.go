package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"schoolms/internal/api"
	"schoolms/internal/auth"
	"schoolms/internal/cloudinary"
	"schoolms/internal/config"
	"schoolms/internal/httpmiddleware"
	"schoolms/internal/logging"
	"schoolms/internal/school"
	"schoolms/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	// Set Gin mode based on environment
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.App, log *slog.Logger) error {
	ctx := context.Background()

	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	tokens := auth.NewTokens(cfg.Auth())
	svc := school.NewService(db, auth.NewCredentials(cfg.Auth()), tokens, log)
	seedAdmin(ctx, svc, cfg, log)

	var limiter httpmiddleware.Limiter = httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	if cfg.RateLimitBackend == "redis" {
		if redisClient.Enabled() {
			limiter = httpmiddleware.NewRedisLimiter(redisClient.Client, cfg.RateLimitPerMin)
		} else {
			log.Warn("RATE_LIMIT_BACKEND=redis without REDIS_ADDR, using in-memory limiter")
		}
	}

	deps := api.Deps{
		Service:     svc,
		Tokens:      tokens,
		Log:         log,
		DB:          db,
		Redis:       redisClient,
		Limiter:     limiter,
		Metrics:     httpmiddleware.NewMetrics(prometheus.DefaultRegisterer),
		CORSOrigins: cfg.CORSOrigins,
		WebDir:      cfg.WebDir,
	}
	if cfg.CloudinaryEnabled() {
		deps.Uploader = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Info("cloudinary configured", "cloud", cfg.CloudinaryCloudName)
	} else {
		log.Info("cloudinary not configured, avatar uploads disabled")
	}
	if _, err := os.Stat(cfg.WebDir); err != nil {
		deps.WebDir = ""
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}
	log.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced shutdown", "error", err)
	}
	log.Info("server exited")
	return nil
}

// seedAdmin creates the bootstrap admin. A failure is logged and the server keeps
// starting; an operator can resolve it and run `admin seed-admin`.
func seedAdmin(ctx context.Context, svc *school.Service, cfg config.App, log *slog.Logger) bool {
	created, err := svc.SeedAdmin(ctx, school.AdminSeed{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Email:    cfg.AdminEmail,
	})
	if err != nil {
		log.Error("could not create default admin", "username", cfg.AdminUsername, "error", err)
		return false
	}
	return created
}
