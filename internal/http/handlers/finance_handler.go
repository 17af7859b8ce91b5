// Finance HTTP handlers.
//
// Mounted under /api/finance. Invoices and payments have no general patch;
// their only mutable field is the status.
//   - GET    /invoices, POST /invoices, GET /invoices/{id}, DELETE /invoices/{id}
//   - PUT|PATCH /invoices/{id}/status
//   - GET    /payments, POST /payments, DELETE /payments/{id}
//   - PUT|PATCH /payments/{id}/status
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/services"
)

// FinanceHandlers serves the finance module.
type FinanceHandlers struct {
	svc      *services.FinanceService
	invoices *ResourceHandler[domain.Invoice]
	payments *ResourceHandler[domain.Payment]
	idem     IdempotencyStore
}

// NewFinance binds the finance handlers to svc.
func NewFinance(svc *services.FinanceService, idem IdempotencyStore) *FinanceHandlers {
	return &FinanceHandlers{
		svc:      svc,
		invoices: NewResourceHandler[domain.Invoice](svc.Invoices, "invoice", idem),
		payments: NewResourceHandler[domain.Payment](svc.Payments, "payment", idem),
		idem:     idem,
	}
}

// Register mounts the finance routes on g.
func (h *FinanceHandlers) Register(g *gin.RouterGroup) {
	inv := g.Group("/invoices")
	inv.GET("", h.invoices.List)
	inv.POST("", h.CreateInvoice)
	inv.GET("/:id", h.GetInvoice)
	inv.DELETE("/:id", h.DeleteInvoice)
	invStatus := SetStatus[domain.Invoice](h.svc.Invoices, "invoice")
	inv.PUT("/:id/status", invStatus)
	inv.PATCH("/:id/status", invStatus)

	pay := g.Group("/payments")
	pay.GET("", h.payments.List)
	pay.POST("", h.payments.Create)
	pay.DELETE("/:id", h.payments.Delete)
	payStatus := SetStatus[domain.Payment](h.svc.Payments, "payment")
	pay.PUT("/:id/status", payStatus)
	pay.PATCH("/:id/status", payStatus)
}

// CreateInvoice godoc
// @ID          createInvoice
// @Summary     Create an invoice with line items
// @Description Allocates the next INV- number and stores the invoice and its lines in one transaction. Amount and item count are computed from the lines.
// @Tags        Finance
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string                 false  "Idempotency key for safe retries"
// @Param       body             body    services.InvoiceInput  true   "Invoice payload"
// @Success     201  {object}  domain.Invoice
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Conflict"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /finance/invoices [post]
func (h *FinanceHandlers) CreateInvoice(c *gin.Context) {
	ctx := requestContext(c)
	if replayCreate(ctx, c, h.svc.GetInvoice) {
		return
	}

	var in services.InvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	inv, err := h.svc.CreateInvoice(ctx, in)
	if err != nil {
		failErr(c, "invoice", err)
		return
	}
	rememberCreate(ctx, c, h.idem, inv.ID, http.StatusCreated)
	ok(c, http.StatusCreated, inv)
}

// GetInvoice godoc
// @ID          getInvoice
// @Summary     Get an invoice with its line items
// @Tags        Finance
// @Produce     json
// @Param       id   path  string  true  "Invoice ID"  format(uuid)
// @Success     200  {object}  services.InvoiceDetail
// @Failure     404  {object}  handlers.ErrorResponse  "Invoice not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /finance/invoices/{id} [get]
func (h *FinanceHandlers) GetInvoice(c *gin.Context) {
	inv, err := h.svc.GetInvoice(requestContext(c), c.Param("id"))
	if err != nil {
		failErr(c, "invoice", err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// DeleteInvoice godoc
// @ID          deleteInvoice
// @Summary     Delete an invoice and its line items
// @Tags        Finance
// @Produce     json
// @Param       id   path  string  true  "Invoice ID"  format(uuid)
// @Success     200  {object}  handlers.MessageResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /finance/invoices/{id} [delete]
func (h *FinanceHandlers) DeleteInvoice(c *gin.Context) {
	if err := h.svc.DeleteInvoice(requestContext(c), c.Param("id")); err != nil {
		failErr(c, "invoice", err)
		return
	}
	deleted(c)
}
