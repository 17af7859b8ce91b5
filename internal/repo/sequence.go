package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

// NextSequence atomically increments the named counter and returns its new
// value, starting at 1. Call it inside the transaction that uses the number
// so a rollback also releases the increment's lock.
func NextSequence(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	seed := domain.Sequence{Name: name, Value: 1}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{"value": gorm.Expr("sequences.value + 1")}),
	}).Create(&seed).Error
	if err != nil {
		return 0, err
	}

	var cur domain.Sequence
	if err := db.WithContext(ctx).Where("name = ?", name).First(&cur).Error; err != nil {
		return 0, err
	}
	return cur.Value, nil
}

// FormatNumber renders a business number such as INV-00042.
func FormatNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}
