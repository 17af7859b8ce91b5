package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/http/middleware"
	"github.com/tbourn/go-erp-backend/internal/repo"
)

// IdempotencyStore persists completed creates keyed by Idempotency-Key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, route, key string, now time.Time) (*middleware.Replay, error)
	Save(ctx context.Context, scope, route, key, resourceID string, status int) error
}

// DBIdempotency stores keys in the idempotency table for TTL.
type DBIdempotency struct {
	DB  *gorm.DB
	TTL time.Duration
}

// Lookup implements middleware.IdempotencyLookup.
func (s *DBIdempotency) Lookup(ctx context.Context, scope, route, key string, now time.Time) (*middleware.Replay, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, scope, route, key, now)
	if err != nil {
		return nil, err
	}
	return &middleware.Replay{ResourceID: rec.ResourceID, Status: rec.Status}, nil
}

// Save records a completed create. A key still bound to a deleted
// resource is moved to the new one.
func (s *DBIdempotency) Save(ctx context.Context, scope, route, key, resourceID string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.DB, scope, route, key, resourceID, status, s.TTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return repo.RepointIdempotency(ctx, s.DB, scope, route, key, resourceID, status, s.TTL)
	}
	return err
}

// replayCreate answers a replayed create with the stored resource. It
// reports false when the request is not a replay or the resource has since
// been deleted, in which case the create runs again.
func replayCreate[T any](ctx context.Context, c *gin.Context, get func(context.Context, string) (*T, error)) bool {
	rep, isReplay := middleware.ReplayOf(c)
	if !isReplay {
		return false
	}
	row, err := get(ctx, rep.ResourceID)
	if err != nil {
		return false
	}
	c.Header("Idempotency-Replayed", "true")
	ok(c, rep.Status, row)
	return true
}

// rememberCreate stores the outcome of a create that carried a key. A
// failure to store is logged and never fails the request.
func rememberCreate(ctx context.Context, c *gin.Context, store IdempotencyStore, resourceID string, status int) {
	key, hasKey := middleware.GetIdempotencyKey(c)
	if !hasKey || store == nil {
		return
	}
	if err := store.Save(ctx, middleware.IdempotencyScope(c), c.FullPath(), key, resourceID, status); err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency record not stored")
	}
}
