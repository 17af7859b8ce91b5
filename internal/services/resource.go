// Package services – Resource
//
// Resource is the generic CRUD service every ERP entity is exposed through.
// It owns the create pipeline (server id, defaults, sequence number,
// validation, insert) and the allow-listed partial update.
//
// A partial update body is a flat JSON object. Keys outside the resource's
// FieldMap are rejected, bookkeeping keys (id, createdAt, ...) are ignored,
// and the remaining keys are decoded onto the stored row and written as a
// column subset inside one transaction.
//
// Observability: every public method opens a span named after the operation
// with the resource name as attribute.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// readOnlyKeys are accepted in update bodies and dropped.
var readOnlyKeys = map[string]bool{
	"id":          true,
	"createdAt":   true,
	"updatedAt":   true,
	"lastUpdated": true,
}

// Resource implements list/get/create/patch/delete for one record type.
type Resource[T any, P interface {
	*T
	domain.Record
}] struct {
	DB *gorm.DB

	// Name is the singular entity label ("employee", "purchase order").
	Name string
	// Module is the audit module label ("HR", "Finance").
	Module string
	// Fields is the patch allow-list.
	Fields domain.FieldMap
	// ReadOnly lists extra JSON keys ignored on update, such as sequence numbers.
	ReadOnly []string
	// Order is the fixed list ordering.
	Order string

	Activity *Activity
	Now      func() time.Time

	// BeforeCreate runs inside the create transaction, after defaults and
	// validation and before the insert.
	BeforeCreate func(ctx context.Context, tx *gorm.DB, row P) error
}

func (s *Resource[T, P]) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Resource[T, P]) span(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tr := otel.Tracer("services/Resource")
	attrs = append(attrs, attribute.String("resource", s.Name))
	return tr.Start(ctx, op, trace.WithAttributes(attrs...))
}

// List returns every row in the resource's fixed order. Never nil.
func (s *Resource[T, P]) List(ctx context.Context) ([]T, error) {
	ctx, span := s.span(ctx, "List")
	defer span.End()

	return repo.List[T](ctx, s.DB, s.Order, 0)
}

// Get returns the row with id or ErrNotFound.
func (s *Resource[T, P]) Get(ctx context.Context, id string) (*T, error) {
	ctx, span := s.span(ctx, "Get", attribute.String("id", id))
	defer span.End()

	row, err := repo.Get[T](ctx, s.DB, id)
	if err != nil {
		return nil, translate(err)
	}
	return row, nil
}

// Create assigns server-side fields to in and inserts it. Any id or
// timestamp supplied by the client is overwritten.
func (s *Resource[T, P]) Create(ctx context.Context, in *T) (*T, error) {
	ctx, span := s.span(ctx, "Create")
	defer span.End()

	row := P(in)
	row.Prepare(uuid.NewString(), s.now())
	if err := row.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.BeforeCreate != nil {
			if err := s.BeforeCreate(ctx, tx, row); err != nil {
				return err
			}
		}
		if err := assignNumber(ctx, tx, row); err != nil {
			return err
		}
		return repo.Insert(ctx, tx, in)
	})
	if err != nil {
		return nil, translate(err)
	}

	span.SetAttributes(attribute.String("id", row.PrimaryKey()))
	countMutation(s.Name, "create")
	s.Activity.Record(ctx, s.Module, Action("created", s.Name))
	return in, nil
}

// assignNumber allocates the next business number for numbered records.
func assignNumber(ctx context.Context, tx *gorm.DB, row any) error {
	n, ok := row.(domain.Numbered)
	if !ok {
		return nil
	}
	seq, err := repo.NextSequence(ctx, tx, n.SequencePrefix())
	if err != nil {
		return err
	}
	n.SetNumber(repo.FormatNumber(n.SequencePrefix(), seq))
	return nil
}

// Patch applies a partial update and returns the re-read row. An empty body
// (or one holding only ignored keys) performs no write and returns nil.
func (s *Resource[T, P]) Patch(ctx context.Context, id string, body map[string]json.RawMessage) (*T, error) {
	ctx, span := s.span(ctx, "Patch", attribute.String("id", id), attribute.Int("fields", len(body)))
	defer span.End()

	keys, err := s.writableKeys(body)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	out, err := s.update(ctx, id, s.Fields, keys, body)
	if err != nil {
		return nil, err
	}
	countMutation(s.Name, "update")
	s.Activity.Record(ctx, s.Module, Action("updated", s.Name))
	return out, nil
}

// SetStatus updates only the status column, validated against the
// resource's vocabulary.
func (s *Resource[T, P]) SetStatus(ctx context.Context, id, status string) (*T, error) {
	ctx, span := s.span(ctx, "SetStatus", attribute.String("id", id), attribute.String("status", status))
	defer span.End()

	raw, err := json.Marshal(status)
	if err != nil {
		return nil, err
	}
	fields := domain.FieldMap{"status": "status"}
	out, err := s.update(ctx, id, fields, []string{"status"}, map[string]json.RawMessage{"status": raw})
	if err != nil {
		return nil, err
	}
	countMutation(s.Name, "status")
	s.Activity.Record(ctx, s.Module, Action("updated", s.Name+" status"))
	return out, nil
}

// Delete hard-deletes the row. A missing row is not an error.
func (s *Resource[T, P]) Delete(ctx context.Context, id string) error {
	ctx, span := s.span(ctx, "Delete", attribute.String("id", id))
	defer span.End()

	n, err := repo.DeleteByID[T](ctx, s.DB, id)
	if err != nil {
		return translate(err)
	}
	span.SetAttributes(attribute.Int64("rows", n))
	if n > 0 {
		countMutation(s.Name, "delete")
		s.Activity.Record(ctx, s.Module, Action("deleted", s.Name))
	}
	return nil
}

// writableKeys returns the sorted allow-listed keys of body. Unknown keys
// are a validation error.
func (s *Resource[T, P]) writableKeys(body map[string]json.RawMessage) ([]string, error) {
	extra := make(map[string]bool, len(s.ReadOnly))
	for _, k := range s.ReadOnly {
		extra[k] = true
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		if readOnlyKeys[k] || extra[k] {
			continue
		}
		if _, ok := s.Fields[k]; !ok {
			return nil, &domain.ValidationError{Field: k, Msg: "unknown field"}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// update is the read-modify-write shared by Patch and SetStatus.
func (s *Resource[T, P]) update(ctx context.Context, id string, fields domain.FieldMap, keys []string, body map[string]json.RawMessage) (*T, error) {
	subset := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		subset[k] = body[k]
	}
	raw, err := json.Marshal(subset)
	if err != nil {
		return nil, err
	}

	var out *T
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := repo.Get[T](ctx, tx, id)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, cur); err != nil {
			return &domain.ValidationError{Msg: fmt.Sprintf("invalid field value: %v", err)}
		}
		row := P(cur)
		cols := fields.Columns(keys)
		if t, ok := any(row).(domain.Toucher); ok {
			cols = append(cols, t.Touch(s.now()))
		}
		if err := row.Validate(); err != nil {
			return err
		}
		if err := repo.UpdateColumns(ctx, tx, cur, cols); err != nil {
			return err
		}
		out, err = repo.Get[T](ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}
