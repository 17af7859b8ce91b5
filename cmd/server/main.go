// Command server runs the Financa ERP HTTP API.
//
// @title                      Financa ERP API
// @version                    1.0
// @description                CRUD backend for HR, finance, inventory, CRM, purchasing and system administration.
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/config"
	_ "github.com/tbourn/go-erp-backend/internal/docs"
	httpapi "github.com/tbourn/go-erp-backend/internal/http"
	"github.com/tbourn/go-erp-backend/internal/observability"
	"github.com/tbourn/go-erp-backend/internal/repo"
	"github.com/tbourn/go-erp-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var migrateOnly = flag.Bool("migrate-only", false, "Run DB migrations (and seed when DB_SEED) and exit")

// idempotencySweep is how often expired Idempotency-Key rows are purged.
const idempotencySweep = 15 * time.Minute

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger := sysutil.ConfigureLogging(cfg.LogLevel, cfg.OTEL.ServiceName, cfg.LogPretty)
	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.Open(cfg.DB, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if cfg.DB.Seed {
		if err := repo.Seed(ctx, db, time.Now().UTC()); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
	}
	if *migrateOnly {
		log.Info().Int("schema_version", repo.SchemaVersion).Msg("migrations completed")
		_ = repo.Close(db)
		return
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go sweepIdempotency(ctx, db, idempotencySweep)

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion).
			Str("db_driver", cfg.DB.Driver).
			Bool("auth_required", cfg.Auth.Required).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	if err := repo.Close(db); err != nil {
		log.Error().Err(err).Msg("database close")
	}
	log.Info().Msg("bye")
}

// sweepIdempotency deletes expired idempotency rows every interval until
// ctx is done.
func sweepIdempotency(ctx context.Context, db *gorm.DB, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				zerolog.Ctx(ctx).Debug().Int64("rows", n).Msg("idempotency keys purged")
			}
		}
	}
}
