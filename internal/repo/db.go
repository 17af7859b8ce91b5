// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and PostgreSQL, plus schema migrations.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-erp-backend/internal/config"
	"github.com/tbourn/go-erp-backend/internal/domain"
)

// Open builds the storage handle selected by cfg.Driver. When traced is set
// every query is recorded as an OpenTelemetry span.
func Open(cfg config.DBConfig, traced bool) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "", "sqlite":
		db, err = OpenSQLite(cfg.Path)
	case "postgres":
		db, err = OpenPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if traced {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			_ = Close(db)
			return nil, err
		}
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(WithPragmas(path)), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// journal_mode is persistent in the file; the rest are per connection
	// and travel in the DSN so recycled connections get them too.
	db.Exec("PRAGMA journal_mode=WAL;")

	// SQLite has a single writer; one pooled connection serializes
	// transactions instead of surfacing SQLITE_BUSY.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// WithPragmas appends the connection pragmas to a SQLite DSN.
func WithPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// OpenPostgres connects to PostgreSQL using a libpq-style or URL DSN.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Models lists every table owned by the application, parents first.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Department{},
		&domain.Employee{},
		&domain.Leave{},
		&domain.Product{},
		&domain.Customer{},
		&domain.Lead{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
		&domain.Payment{},
		&domain.Vendor{},
		&domain.PurchaseOrder{},
		&domain.Bill{},
		&domain.ActivityLog{},
		&domain.CompanyProfile{},
		&domain.Sequence{},
		&domain.Idempotency{},
		&domain.SchemaMigration{},
	}
}

// SchemaVersion is bumped whenever Models() changes shape.
const SchemaVersion = 1

// AutoMigrate creates or updates every application table and records
// SchemaVersion in schema_migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.SchemaMigration{Version: SchemaVersion, AppliedAt: time.Now().UTC()}).Error
}
