// Package domain defines the persistence models for every ERP resource
// (HR, inventory, CRM, finance, purchasing and system) together with the
// small contracts the generic resource layer relies on. These types are
// mapped with GORM and serialized to the camelCase JSON the API exposes.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Record is implemented (on the pointer) by every model exposed through the
// generic CRUD layer.
type Record interface {
	TableName() string
	// PrimaryKey returns the row id.
	PrimaryKey() string
	// Prepare assigns the server-side id, timestamps and defaults before insert.
	Prepare(id string, now time.Time)
	// Validate checks required fields and status vocabularies.
	Validate() error
}

// Toucher is implemented by records that bump a bookkeeping column on
// every partial update. Touch sets the field and returns its column name.
type Toucher interface {
	Touch(now time.Time) string
}

// Numbered is implemented by records carrying a human-readable sequence
// number such as INV-00001.
type Numbered interface {
	SequencePrefix() string
	SetNumber(n string)
}

// FieldMap maps a JSON field name to its storage column. It is the only set
// of keys a partial update may write.
type FieldMap map[string]string

// Columns returns the distinct columns for the given JSON keys, in key order.
func (m FieldMap) Columns(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		col, ok := m[k]
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		out = append(out, col)
	}
	return out
}

// ValidationError reports a rejected field value.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field, Msg: "is required"}
	}
	return nil
}

func oneOf(field, v string, allowed []string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return &ValidationError{Field: field, Msg: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))}
}

func nonNegative(field string, v float64) error {
	if v < 0 {
		return &ValidationError{Field: field, Msg: "must be >= 0"}
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Today formats t as the ISO calendar date used by business date columns.
func Today(t time.Time) string { return t.UTC().Format("2006-01-02") }
