// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to implement safe-retry semantics for create endpoints.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

// GetIdempotency returns a non-expired record for (scope, route, key) or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, scope, route, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("scope = ? AND route = ? AND key = ? AND expires_at > ?", scope, route, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateIdempotency inserts a record and returns ErrDuplicate on unique violation.
// Expired rows for the same tuple are purged first so the key can be reused.
func CreateIdempotency(ctx context.Context, db *gorm.DB, scope, route, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	if err := db.WithContext(ctx).
		Where("scope = ? AND route = ? AND key = ? AND expires_at <= ?", scope, route, key, now).
		Delete(&domain.Idempotency{}).Error; err != nil {
		return nil, err
	}
	rec := &domain.Idempotency{
		ID:         uuid.NewString(),
		Scope:      scope,
		Route:      route,
		Key:        key,
		ResourceID: resourceID,
		Status:     status,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := Classify(db.WithContext(ctx).Create(rec).Error); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredIdempotency deletes records whose TTL elapsed before now.
func PurgeExpiredIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}

// RepointIdempotency moves a live (scope, route, key) record to resourceID
// and restarts its TTL. It is used when the original resource was deleted
// and the create ran again.
func RepointIdempotency(ctx context.Context, db *gorm.DB, scope, route, key, resourceID string, status int, ttl time.Duration) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).Model(&domain.Idempotency{}).
		Where("scope = ? AND route = ? AND key = ?", scope, route, key).
		Updates(map[string]any{
			"resource_id": resourceID,
			"status":      status,
			"created_at":  now,
			"expires_at":  now.Add(ttl),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
