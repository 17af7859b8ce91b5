// Package httpapi wires the Gin engine to the ERP services: middleware,
// module route groups under the API base path, health probes, metrics and
// the optional Swagger UI.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/config"
	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/http/handlers"
	"github.com/tbourn/go-erp-backend/internal/http/middleware"
	"github.com/tbourn/go-erp-backend/internal/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// RegisterRoutes attaches middleware and every endpoint to r.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID, then token parsing so later steps see the caller
//  3. RedactingLogger, then Recovery so panics are logged with the request
//  4. Body size limit and metrics
//  5. Idempotency validator, before the rate limiter so replays bypass it
//  6. Rate limiter (per user/IP)
//  7. CORS, security headers and optional gzip
//
// Module groups additionally require a token when cfg.Auth.Required, and
// system user writes plus company profile updates require super_admin.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	tokens := middleware.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	idem := &handlers.DBIdempotency{DB: db, TTL: cfg.IdempotencyTTL}

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Authenticate(tokens))
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics(cfg.APIBasePath))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.Lookup))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP(), "/health", "/metrics")
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))
	if cfg.GzipEnabled {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Financa ERP API is running") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Services share one audit writer.
	act := &services.Activity{DB: db}
	auth := &services.AuthService{DB: db, Tokens: tokens, Activity: act}

	api := groupWithPrefix(r, cfg.APIBasePath)
	api.GET("/health", healthHandler(db))
	handlers.NewAuth(auth).Register(api.Group("/auth"))

	modules := api.Group("")
	var admin []gin.HandlerFunc
	if cfg.Auth.Required {
		modules.Use(middleware.RequireAuth())
		admin = append(admin, middleware.RequireRole(domain.RoleSuperAdmin))
	}
	handlers.NewHR(services.NewHRService(db, act), idem).Register(modules.Group("/hr"))
	handlers.NewFinance(services.NewFinanceService(db, act), idem).Register(modules.Group("/finance"))
	handlers.NewInventory(services.NewInventoryService(db, act), idem).Register(modules.Group("/inventory"))
	handlers.NewCRM(services.NewCRMService(db, act), idem).Register(modules.Group("/crm"))
	handlers.NewPurchasing(services.NewPurchasingService(db, act), idem).Register(modules.Group("/purchasing"))
	handlers.NewSystem(services.NewSystemService(db, act), admin...).Register(modules.Group("/system"))
}

// healthHandler reports the process and database state.
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
	}
}

// corsMiddleware allows every origin when allowed is empty, otherwise only
// the listed origins.
func corsMiddleware(allowed []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowed) == 0 {
		base.AllowAllOrigins = true
		// Set ACAO even when the request carries no Origin header.
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}
	base.AllowOrigins = allowed
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody caps the request body at maxBytes. Reads past the cap fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
