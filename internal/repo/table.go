// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the generic, context-aware table
// helpers every resource shares.
//
// All functions accept a *gorm.DB handle, so they work unchanged inside a
// transaction. They follow the "thin repository" approach: no business
// logic, only persistence and query composition.
//
// Error semantics:
//   - Missing rows return ErrNotFound (gorm.ErrRecordNotFound).
//   - Unique and foreign key violations are classified as ErrDuplicate and
//     ErrConstraint, keeping the driver message.
//   - Any other DB error is propagated unchanged.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// List returns every row of T in the given order ("created_at DESC").
// limit <= 0 means no limit. The result is never nil.
func List[T any](ctx context.Context, db *gorm.DB, order string, limit int) ([]T, error) {
	rows := make([]T, 0)
	q := db.WithContext(ctx).Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWhere is List filtered by a single equality condition.
func ListWhere[T any](ctx context.Context, db *gorm.DB, column string, value any, order string) ([]T, error) {
	rows := make([]T, 0)
	if err := db.WithContext(ctx).Where(column+" = ?", value).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get fetches the row of T whose id matches, or ErrNotFound.
func Get[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert writes a new row.
func Insert[T any](ctx context.Context, db *gorm.DB, row *T) error {
	return Classify(db.WithContext(ctx).Create(row).Error)
}

// UpdateColumns writes only the named columns of row, including zero values.
func UpdateColumns[T any](ctx context.Context, db *gorm.DB, row *T, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	return Classify(db.WithContext(ctx).Model(row).Select(columns).Updates(row).Error)
}

// DeleteByID hard-deletes the row of T with the given id and reports how
// many rows were removed.
func DeleteByID[T any](ctx context.Context, db *gorm.DB, id string) (int64, error) {
	var zero T
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&zero)
	return res.RowsAffected, Classify(res.Error)
}

// Exists reports whether a row of T with the given id is present.
func Exists[T any](ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	var zero T
	if err := db.WithContext(ctx).Model(&zero).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
