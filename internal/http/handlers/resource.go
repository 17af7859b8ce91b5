// Generic resource handlers.
//
// Every ERP entity is served by a ResourceHandler bound to its CRUD service:
//   - GET    /<resource>        (list, weak ETag, 304)
//   - GET    /<resource>/:id
//   - POST   /<resource>        (create, Idempotency-Key replay)
//   - PUT    /<resource>/:id    (partial update; PATCH is bound too)
//   - DELETE /<resource>/:id
//
// The per-module files only add swagger docs and the module-specific routes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/http/middleware"
	"github.com/tbourn/go-erp-backend/internal/services"
)

// CRUD is the service contract behind a ResourceHandler. services.Resource
// implements it for every entity.
type CRUD[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in *T) (*T, error)
	Patch(ctx context.Context, id string, body map[string]json.RawMessage) (*T, error)
	Delete(ctx context.Context, id string) error
}

// StatusSetter is implemented by resources with a status route.
type StatusSetter[T any] interface {
	SetStatus(ctx context.Context, id, status string) (*T, error)
}

// ResourceHandler serves one entity through its CRUD service.
type ResourceHandler[T any] struct {
	Svc CRUD[T]
	// Entity is the label used in error messages ("employee").
	Entity string
	Idem   IdempotencyStore
}

// NewResourceHandler binds svc under the given entity label.
func NewResourceHandler[T any](svc CRUD[T], entity string, idem IdempotencyStore) *ResourceHandler[T] {
	return &ResourceHandler[T]{Svc: svc, Entity: entity, Idem: idem}
}

// Register mounts the five CRUD routes on g.
func (h *ResourceHandler[T]) Register(g gin.IRoutes) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// requestContext returns the request context carrying the audit actor:
// the token email, else the X-User-ID header, else "anonymous".
func requestContext(c *gin.Context) context.Context {
	user := ""
	if cl, ok := middleware.ClaimsFrom(c); ok {
		user = cl.Email
	}
	if user == "" {
		user = strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	if user == "" {
		user = "anonymous"
	}
	return services.WithActor(c.Request.Context(), services.Actor{User: user, IP: c.ClientIP()})
}

// List writes every row with a weak ETag.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	rows, err := h.Svc.List(requestContext(c))
	if err != nil {
		failErr(c, h.Entity, err)
		return
	}
	okCached(c, rows)
}

// Get writes one row or 404.
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	row, err := h.Svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		failErr(c, h.Entity, err)
		return
	}
	ok(c, http.StatusOK, row)
}

// Create decodes a flat JSON object and inserts it. When the request
// replays an Idempotency-Key, the stored resource is returned instead.
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	ctx := requestContext(c)
	if replayCreate(ctx, c, h.Svc.Get) {
		return
	}

	in := new(T)
	if err := c.ShouldBindJSON(in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	out, err := h.Svc.Create(ctx, in)
	if err != nil {
		failErr(c, h.Entity, err)
		return
	}
	h.remember(ctx, c, any(out))
	ok(c, http.StatusCreated, out)
}

// Update applies a partial update. An empty body answers {} without a
// write.
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	body, okBody := bindPatch(c)
	if !okBody {
		return
	}
	out, err := h.Svc.Patch(requestContext(c), c.Param("id"), body)
	if err != nil {
		failErr(c, h.Entity, err)
		return
	}
	if out == nil {
		ok(c, http.StatusOK, gin.H{})
		return
	}
	ok(c, http.StatusOK, out)
}

// Delete removes the row. Missing rows are reported as deleted.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	if err := h.Svc.Delete(requestContext(c), c.Param("id")); err != nil {
		failErr(c, h.Entity, err)
		return
	}
	deleted(c)
}

// SetStatus returns a status route handler for svc.
func SetStatus[T any](svc StatusSetter[T], entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
		id := c.Param("id")
		if _, err := svc.SetStatus(requestContext(c), id, req.Status); err != nil {
			failErr(c, entity, err)
			return
		}
		ok(c, http.StatusOK, StatusResponse{ID: id, Status: req.Status})
	}
}

// bindPatch decodes a flat JSON object. Anything else is a 400.
func bindPatch(c *gin.Context) (map[string]json.RawMessage, bool) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "request body must be a JSON object")
		return nil, false
	}
	return body, true
}

// remember stores a completed create for later replays.
func (h *ResourceHandler[T]) remember(ctx context.Context, c *gin.Context, out any) {
	rec, isRecord := out.(domain.Record)
	if !isRecord {
		return
	}
	rememberCreate(ctx, c, h.Idem, rec.PrimaryKey(), http.StatusCreated)
}
