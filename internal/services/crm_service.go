package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CRMService groups customers and leads.
type CRMService struct {
	DB        *gorm.DB
	Customers *Resource[domain.Customer, *domain.Customer]
	Leads     *Resource[domain.Lead, *domain.Lead]
	Activity  *Activity
	Now       func() time.Time
}

// NewCRMService wires the CRM resources on db.
func NewCRMService(db *gorm.DB, act *Activity) *CRMService {
	return &CRMService{
		DB:       db,
		Activity: act,
		Customers: &Resource[domain.Customer, *domain.Customer]{
			DB: db, Name: "customer", Module: "CRM", Activity: act,
			Fields: domain.CustomerFields, Order: "created_at DESC",
		},
		Leads: &Resource[domain.Lead, *domain.Lead]{
			DB: db, Name: "lead", Module: "CRM", Activity: act,
			Fields: domain.LeadFields, Order: "created_at DESC",
		},
	}
}

// ConvertLead turns a lead into an active customer and removes the lead,
// atomically. It returns ErrNotFound when the lead does not exist.
func (s *CRMService) ConvertLead(ctx context.Context, leadID string) (*domain.Customer, error) {
	tr := otel.Tracer("services/CRMService")
	ctx, span := tr.Start(ctx, "ConvertLead",
		trace.WithAttributes(attribute.String("lead.id", leadID)),
	)
	defer span.End()

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	var cust domain.Customer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lead, err := repo.Get[domain.Lead](ctx, tx, leadID)
		if err != nil {
			return err
		}
		cust = lead.ToCustomer()
		cust.Prepare(uuid.NewString(), now)
		if err := cust.Validate(); err != nil {
			return err
		}
		if err := repo.Insert(ctx, tx, &cust); err != nil {
			return err
		}
		_, err = repo.DeleteByID[domain.Lead](ctx, tx, leadID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	span.SetAttributes(attribute.String("customer.id", cust.ID))
	countMutation("lead", "convert")
	s.Activity.Record(ctx, "CRM", Action("converted", "lead"))
	return &cust, nil
}
