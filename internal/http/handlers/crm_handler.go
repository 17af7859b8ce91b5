// CRM HTTP handlers: /api/crm/customers and /api/crm/leads, plus
// POST /api/crm/leads/{id}/convert.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/services"
)

// CRMHandlers serves the CRM module.
type CRMHandlers struct {
	svc       *services.CRMService
	customers *ResourceHandler[domain.Customer]
	leads     *ResourceHandler[domain.Lead]
	idem      IdempotencyStore
}

// NewCRM binds the CRM handlers to svc.
func NewCRM(svc *services.CRMService, idem IdempotencyStore) *CRMHandlers {
	return &CRMHandlers{
		svc:       svc,
		customers: NewResourceHandler[domain.Customer](svc.Customers, "customer", idem),
		leads:     NewResourceHandler[domain.Lead](svc.Leads, "lead", idem),
		idem:      idem,
	}
}

// Register mounts the CRM routes on g.
func (h *CRMHandlers) Register(g *gin.RouterGroup) {
	h.customers.Register(g.Group("/customers"))
	leads := g.Group("/leads")
	h.leads.Register(leads)
	leads.POST("/:id/convert", h.ConvertLead)
}

// ConvertLead godoc
// @ID          convertLead
// @Summary     Convert a lead into a customer
// @Description Creates an active customer from the lead and deletes the lead in one transaction.
// @Tags        CRM
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"
// @Param       id               path    string  true   "Lead ID"  format(uuid)
// @Success     201  {object}  domain.Customer
// @Failure     404  {object}  handlers.ErrorResponse  "Lead not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /crm/leads/{id}/convert [post]
func (h *CRMHandlers) ConvertLead(c *gin.Context) {
	ctx := requestContext(c)
	if replayCreate(ctx, c, h.svc.Customers.Get) {
		return
	}
	cust, err := h.svc.ConvertLead(ctx, c.Param("id"))
	if err != nil {
		failErr(c, "lead", err)
		return
	}
	rememberCreate(ctx, c, h.idem, cust.ID, http.StatusCreated)
	ok(c, http.StatusCreated, cust)
}
