package handlers

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arnavshah/room-scheduler-api/pkg/auth"
	"github.com/arnavshah/room-scheduler-api/pkg/config"
	"github.com/arnavshah/room-scheduler-api/pkg/database"
	"github.com/arnavshah/room-scheduler-api/pkg/metrics"
)

// Version is reported by the index route.
const Version = "3.0.0"

//go:embed static/*
var staticEmbed embed.FS

// Handler contains dependencies for the route handlers
type Handler struct {
	DB      *gorm.DB
	Signer  *auth.Signer
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics *metrics.Recorder

	base zerolog.Logger
	now  func() time.Time
}

// NewHandler wires the route handlers.
func NewHandler(db *gorm.DB, cfg *config.Config, logger zerolog.Logger, recorder *metrics.Recorder) *Handler {
	return &Handler{
		DB:      db,
		Signer:  auth.NewSigner(cfg.JWTSecret, cfg.APIMasterSecret),
		Config:  cfg,
		Logger:  logger.With().Str("component", "http").Logger(),
		Metrics: recorder,
		base:    logger,
		now:     time.Now,
	}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r *gin.Engine) {
	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Scheduler Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule", h.ScheduleJSON)
		api.POST("/schedule/csv", h.ScheduleCSV)
		api.POST("/schedule/yaml", h.ScheduleYAML)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
		api.GET("/runs/:id", h.GetRun)
		api.GET("/runs/:id/csv", h.GetRunCSV)
	}
}

// NewRouter builds a gin engine with logging, recovery and every route.
func (h *Handler) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(h.RequestLogger(), gin.Recovery())
	h.Routes(r)
	return r
}

// RequestLogger writes one log event per request.
func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := h.Logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = h.Logger.Error()
		case status >= http.StatusBadRequest:
			event = h.Logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Index describes the service
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Room Scheduler API",
		"version": Version,
	})
}

// Health reports whether the database is reachable
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Signer.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key for scheduler routes, tracks
// the key record and enforces its daily request limit.
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		name, err := h.Signer.VerifyAPIKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		err = h.DB.Where(database.APIKey{Key: key}).Attrs(database.APIKey{
			Name:       name,
			KeyPreview: auth.KeyPreview(key),
			RateLimit:  h.Config.DefaultRateLimit,
		}).FirstOrCreate(&apiKey).Error
		if err != nil {
			h.Logger.Error().Err(err).Msg("api key lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			return
		}
		if apiKey.Revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			return
		}

		now := h.now()
		if apiKey.RateLimit > 0 {
			var today database.APIUsage
			err := h.DB.Where("key_id = ? AND date = ?", apiKey.ID, now.Format("2006-01-02")).First(&today).Error
			if err == nil && today.RequestCount >= apiKey.RateLimit {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily rate limit exceeded"})
				return
			}
		}

		if err := h.DB.Model(&apiKey).Update("last_used", now).Error; err != nil {
			h.Logger.Debug().Err(err).Uint("key_id", apiKey.ID).Msg("could not update last_used")
		}

		c.Set("apiKey", &apiKey)
		c.Set("keyName", name)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	value := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(value) > 7 && strings.EqualFold(value[:7], "Bearer ") {
		value = strings.TrimSpace(value[7:])
	}
	return value
}

func currentKey(c *gin.Context) (*database.APIKey, bool) {
	raw, exists := c.Get("apiKey")
	if !exists {
		return nil, false
	}
	apiKey, ok := raw.(*database.APIKey)
	return apiKey, ok
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
