package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

// GetInvoiceWithItems loads an invoice and its line items.
func GetInvoiceWithItems(ctx context.Context, db *gorm.DB, id string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Preload("LineItems", func(q *gorm.DB) *gorm.DB { return q.Order("line") }).
		Where("id = ?", id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvoice removes an invoice's line items and then the invoice. Run it
// inside a transaction.
func DeleteInvoice(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	if err := db.WithContext(ctx).Where("invoice_id = ?", id).Delete(&domain.InvoiceItem{}).Error; err != nil {
		return 0, err
	}
	return DeleteByID[domain.Invoice](ctx, db, id)
}

// GetUserByEmail looks a user up by case-insensitive email.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// InsertActivity appends an audit entry.
func InsertActivity(ctx context.Context, db *gorm.DB, entry *domain.ActivityLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

// ListActivity returns the newest audit entries first.
func ListActivity(ctx context.Context, db *gorm.DB, limit int) ([]domain.ActivityLog, error) {
	return List[domain.ActivityLog](ctx, db, "timestamp DESC", limit)
}

// GetCompanyProfile returns the stored profile, or ErrNotFound if none was saved.
func GetCompanyProfile(ctx context.Context, db *gorm.DB) (*domain.CompanyProfile, error) {
	var p domain.CompanyProfile
	if err := db.WithContext(ctx).Where("id = ?", domain.CompanyProfileID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveCompanyProfile upserts the singleton profile row.
func SaveCompanyProfile(ctx context.Context, db *gorm.DB, p *domain.CompanyProfile) error {
	p.ID = domain.CompanyProfileID
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(p).Error
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
