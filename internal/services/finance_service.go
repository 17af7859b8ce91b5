package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InvoiceLine is one requested invoice line. ID optionally references a
// catalogue product.
type InvoiceLine struct {
	ID       *string `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// InvoiceInput is the create-invoice request body.
type InvoiceInput struct {
	Customer string        `json:"customer"`
	Date     string        `json:"date"`
	DueDate  string        `json:"dueDate"`
	Status   string        `json:"status"`
	Items    []InvoiceLine `json:"items"`
}

// InvoiceDetail is an invoice with its line items always serialized.
type InvoiceDetail struct {
	domain.Invoice
	LineItems []domain.InvoiceItem `json:"lineItems"`
}

// FinanceService owns invoices (with line items) and payments.
type FinanceService struct {
	DB       *gorm.DB
	Invoices *Resource[domain.Invoice, *domain.Invoice]
	Payments *Resource[domain.Payment, *domain.Payment]
	Activity *Activity
	Now      func() time.Time
}

// NewFinanceService wires the finance resources on db.
func NewFinanceService(db *gorm.DB, act *Activity) *FinanceService {
	return &FinanceService{
		DB:       db,
		Activity: act,
		Invoices: &Resource[domain.Invoice, *domain.Invoice]{
			DB: db, Name: "invoice", Module: "Finance", Activity: act,
			Fields: domain.FieldMap{"status": "status"}, Order: "created_at DESC",
		},
		Payments: &Resource[domain.Payment, *domain.Payment]{
			DB: db, Name: "payment", Module: "Finance", Activity: act,
			Fields: domain.FieldMap{"status": "status"}, Order: "created_at DESC",
		},
	}
}

func (s *FinanceService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateInvoice allocates an invoice number and stores the invoice with its
// lines in one transaction. Amount and item count are computed here and not
// recalculated afterwards.
func (s *FinanceService) CreateInvoice(ctx context.Context, in InvoiceInput) (*domain.Invoice, error) {
	tr := otel.Tracer("services/FinanceService")
	ctx, span := tr.Start(ctx, "CreateInvoice",
		trace.WithAttributes(attribute.Int("items", len(in.Items))),
	)
	defer span.End()

	inv := &domain.Invoice{
		Customer: in.Customer,
		Date:     in.Date,
		DueDate:  in.DueDate,
		Status:   in.Status,
	}
	inv.Prepare(uuid.NewString(), s.now())

	for i, it := range in.Items {
		if it.Quantity < 0 || it.Price < 0 {
			return nil, &domain.ValidationError{
				Field: fmt.Sprintf("items[%d]", i),
				Msg:   "quantity and price must be >= 0",
			}
		}
		desc := strings.TrimSpace(it.Name)
		if desc == "" {
			desc = "Item"
		}
		var productID *string
		if it.ID != nil && strings.TrimSpace(*it.ID) != "" {
			productID = it.ID
		}
		inv.LineItems = append(inv.LineItems, domain.InvoiceItem{
			ID:          uuid.NewString(),
			InvoiceID:   inv.ID,
			Line:        i + 1,
			ProductID:   productID,
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			Amount:      float64(it.Quantity) * it.Price,
		})
	}
	inv.Total()
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assignNumber(ctx, tx, inv); err != nil {
			return err
		}
		return repo.Insert(ctx, tx, inv)
	})
	if err != nil {
		return nil, translate(err)
	}

	span.SetAttributes(
		attribute.String("invoice.id", inv.ID),
		attribute.String("invoice.number", inv.InvoiceNumber),
	)
	countMutation("invoice", "create")
	s.Activity.Record(ctx, "Finance", Action("created", "invoice"))
	return inv, nil
}

// GetInvoice returns an invoice with its line items in line order.
func (s *FinanceService) GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error) {
	tr := otel.Tracer("services/FinanceService")
	ctx, span := tr.Start(ctx, "GetInvoice",
		trace.WithAttributes(attribute.String("invoice.id", id)),
	)
	defer span.End()

	inv, err := repo.GetInvoiceWithItems(ctx, s.DB, id)
	if err != nil {
		return nil, translate(err)
	}
	items := inv.LineItems
	if items == nil {
		items = []domain.InvoiceItem{}
	}
	inv.LineItems = nil
	return &InvoiceDetail{Invoice: *inv, LineItems: items}, nil
}

// DeleteInvoice removes an invoice and its lines together. A missing
// invoice is not an error.
func (s *FinanceService) DeleteInvoice(ctx context.Context, id string) error {
	tr := otel.Tracer("services/FinanceService")
	ctx, span := tr.Start(ctx, "DeleteInvoice",
		trace.WithAttributes(attribute.String("invoice.id", id)),
	)
	defer span.End()

	var n int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = repo.DeleteInvoice(ctx, tx, id)
		return err
	})
	if err != nil {
		return translate(err)
	}
	if n > 0 {
		countMutation("invoice", "delete")
		s.Activity.Record(ctx, "Finance", Action("deleted", "invoice"))
	}
	return nil
}
