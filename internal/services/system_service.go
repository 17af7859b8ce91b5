package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"
	"github.com/tbourn/go-erp-backend/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Activity log listing bounds.
const (
	DefaultLogLimit = 50
	MaxLogLimit     = 200
)

// TableSummary reports the size and freshness of one table.
type TableSummary struct {
	Table       string     `json:"table"`
	Count       int64      `json:"count"`
	LastCreated *time.Time `json:"lastCreated"`
}

// SystemService covers users, the audit log, the company profile and the
// store summary.
type SystemService struct {
	DB       *gorm.DB
	Users    *Resource[domain.User, *domain.User]
	Activity *Activity
	Now      func() time.Time
}

// NewSystemService wires the system resources on db.
func NewSystemService(db *gorm.DB, act *Activity) *SystemService {
	return &SystemService{
		DB:       db,
		Activity: act,
		Users: &Resource[domain.User, *domain.User]{
			DB: db, Name: "user", Module: "System", Activity: act,
			Fields: domain.UserFields, ReadOnly: []string{"email"},
			Order: "created_at DESC",
		},
	}
}

// Logs returns the newest audit entries. limit is clamped to
// [1, MaxLogLimit] with DefaultLogLimit for non-positive values. Storage
// errors (including a missing table) yield an empty list.
func (s *SystemService) Logs(ctx context.Context, limit int) []domain.ActivityLog {
	tr := otel.Tracer("services/SystemService")
	ctx, span := tr.Start(ctx, "Logs", trace.WithAttributes(attribute.Int("limit", limit)))
	defer span.End()

	if limit <= 0 {
		limit = DefaultLogLimit
	}
	limit = utils.Clamp(limit, 1, MaxLogLimit)
	rows, err := repo.ListActivity(ctx, s.DB, limit)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("activity log read failed")
		return []domain.ActivityLog{}
	}
	return rows
}

// CompanyProfile returns the saved profile or the built-in default.
func (s *SystemService) CompanyProfile(ctx context.Context) (*domain.CompanyProfile, error) {
	tr := otel.Tracer("services/SystemService")
	ctx, span := tr.Start(ctx, "CompanyProfile")
	defer span.End()

	p, err := repo.GetCompanyProfile(ctx, s.DB)
	if repo.IsNotFound(err) {
		def := domain.DefaultCompanyProfile()
		return &def, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SaveCompanyProfile replaces the stored profile with p.
func (s *SystemService) SaveCompanyProfile(ctx context.Context, p *domain.CompanyProfile) (*domain.CompanyProfile, error) {
	tr := otel.Tracer("services/SystemService")
	ctx, span := tr.Start(ctx, "SaveCompanyProfile")
	defer span.End()

	if p.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Msg: "is required"}
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	p.UpdatedAt = now
	if err := repo.SaveCompanyProfile(ctx, s.DB, p); err != nil {
		return nil, err
	}
	countMutation("company profile", "update")
	s.Activity.Record(ctx, "System", Action("updated", "company profile"))
	return p, nil
}

// Summary reports row counts and the newest creation time per table.
func (s *SystemService) Summary(ctx context.Context) ([]TableSummary, error) {
	tr := otel.Tracer("services/SystemService")
	ctx, span := tr.Start(ctx, "Summary")
	defer span.End()

	type stat func(context.Context, *gorm.DB) (int64, *time.Time, error)
	tables := []struct {
		name string
		fn   stat
	}{
		{"employees", statOf[domain.Employee]("created_at")},
		{"departments", statOf[domain.Department]("created_at")},
		{"leaves", statOf[domain.Leave]("created_at")},
		{"products", statOf[domain.Product]("created_at")},
		{"customers", statOf[domain.Customer]("created_at")},
		{"leads", statOf[domain.Lead]("created_at")},
		{"invoices", statOf[domain.Invoice]("created_at")},
		{"payments", statOf[domain.Payment]("created_at")},
		{"vendors", statOf[domain.Vendor]("created_at")},
		{"purchase_orders", statOf[domain.PurchaseOrder]("created_at")},
		{"bills", statOf[domain.Bill]("created_at")},
		{"users", statOf[domain.User]("created_at")},
		{"activity_logs", statOf[domain.ActivityLog]("timestamp")},
	}

	out := make([]TableSummary, 0, len(tables))
	for _, t := range tables {
		n, last, err := t.fn(ctx, s.DB)
		if err != nil {
			return nil, err
		}
		out = append(out, TableSummary{Table: t.name, Count: n, LastCreated: last})
	}
	return out, nil
}

func statOf[T any](column string) func(context.Context, *gorm.DB) (int64, *time.Time, error) {
	return func(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
		return repo.Stats[T](ctx, db, column)
	}
}
