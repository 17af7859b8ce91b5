// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the per-table aggregates behind the
// system summary endpoint.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Stats returns the row count of T and the greatest value of the timestamp
// column tsColumn, or nil when the table is empty.
func Stats[T any](ctx context.Context, db *gorm.DB, tsColumn string) (count int64, maxTS *time.Time, err error) {
	var zero T
	q := db.WithContext(ctx).Model(&zero)
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Order+Limit instead of MAX(): SQLite returns MAX() of a datetime as TEXT.
	var row struct {
		TS time.Time
	}
	if err = db.WithContext(ctx).Model(&zero).Select(tsColumn + " AS ts").Order(tsColumn + " DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.TS, nil
}
