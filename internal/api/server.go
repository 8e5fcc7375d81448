package api

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"schoolms/internal/auth"
	"schoolms/internal/cloudinary"
	"schoolms/internal/httpmiddleware"
	"schoolms/internal/school"
	"schoolms/internal/store"
)

// Uploader stores avatar images and returns where they can be fetched.
type Uploader interface {
	UploadDataURL(ctx context.Context, data string) (*cloudinary.UploadResult, error)
	UploadFile(ctx context.Context, data []byte, filename string) (*cloudinary.UploadResult, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the router needs. Optional parts may be nil.
type Deps struct {
	Service *school.Service
	Tokens  *auth.Tokens
	Log     *slog.Logger

	DB       Pinger
	Redis    *store.Redis
	Limiter  httpmiddleware.Limiter
	Metrics  *httpmiddleware.Metrics
	Uploader Uploader

	CORSOrigins []string
	WebDir      string
}

type server struct {
	svc      *school.Service
	log      *slog.Logger
	db       Pinger
	redis    *store.Redis
	uploader Uploader
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	s := &server{svc: d.Service, log: log, db: d.DB, redis: d.Redis, uploader: d.Uploader}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(log, "/healthz", "/metrics"))
	if d.Metrics != nil {
		r.Use(d.Metrics.GinMiddleware())
	}
	r.Use(corsMiddleware(d.CORSOrigins))
	r.Use(securityHeaders())
	if d.Limiter != nil {
		r.Use(httpmiddleware.RateLimit(d.Limiter))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.health)

	if d.WebDir != "" {
		r.StaticFile("/", filepath.Join(d.WebDir, "login.html"))
		r.Static("/static", filepath.Join(d.WebDir, "static"))
	}

	api := r.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)

	gated := api.Group("", auth.Gate(d.Tokens))
	gated.GET("/user", s.currentUser)
	gated.GET("/stats", s.stats)
	gated.POST("/upload", s.upload)

	gated.GET("/students", s.listStudents)
	gated.POST("/students", s.createStudent)
	gated.GET("/students/:id", s.getStudent)
	gated.PUT("/students/:id", s.updateStudent)
	gated.DELETE("/students/:id", s.deleteStudent)

	gated.GET("/teachers", s.listTeachers)
	gated.POST("/teachers", s.createTeacher)
	gated.GET("/teachers/:id", s.getTeacher)
	gated.PUT("/teachers/:id", s.updateTeacher)
	gated.DELETE("/teachers/:id", s.deleteTeacher)

	gated.GET("/attendance", s.listAttendance)
	gated.POST("/attendance", s.createAttendance)
	gated.GET("/attendance/:id", s.getAttendance)
	gated.PUT("/attendance/:id", s.updateAttendance)
	gated.DELETE("/attendance/:id", s.deleteAttendance)

	gated.GET("/finance", s.listFinance)
	gated.POST("/finance", s.createFinance)
	gated.GET("/finance/:id", s.getFinance)
	gated.PUT("/finance/:id", s.updateFinance)
	gated.DELETE("/finance/:id", s.deleteFinance)

	return r
}

func (s *server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbHealthy := s.db != nil && s.db.Ping(ctx) == nil
	body := gin.H{"status": "ok", "db": dbHealthy}
	healthy := dbHealthy
	if s.redis.Enabled() {
		redisHealthy := s.redis.Healthy(ctx)
		body["redis"] = redisHealthy
		healthy = healthy && redisHealthy
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        24 * time.Hour,
	}
	if len(origins) == 0 || containsWildcard(origins) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
