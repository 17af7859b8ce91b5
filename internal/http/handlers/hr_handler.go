// HR HTTP handlers.
//
// Mounted under /api/hr:
//   - /employees         CRUD, GET /employees/{id}/leaves
//   - /departments       CRUD
//   - /leaves            CRUD, GET /leaves/pending, PUT|PATCH /leaves/{id}/status
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/services"
)

// HRHandlers serves the HR module.
type HRHandlers struct {
	svc         *services.HRService
	employees   *ResourceHandler[domain.Employee]
	departments *ResourceHandler[domain.Department]
	leaves      *ResourceHandler[domain.Leave]
}

// NewHR binds the HR handlers to svc.
func NewHR(svc *services.HRService, idem IdempotencyStore) *HRHandlers {
	return &HRHandlers{
		svc:         svc,
		employees:   NewResourceHandler[domain.Employee](svc.Employees, "employee", idem),
		departments: NewResourceHandler[domain.Department](svc.Departments, "department", idem),
		leaves:      NewResourceHandler[domain.Leave](svc.Leaves, "leave", idem),
	}
}

// Register mounts the HR routes on g.
func (h *HRHandlers) Register(g *gin.RouterGroup) {
	emp := g.Group("/employees")
	h.employees.Register(emp)
	emp.GET("/:id/leaves", h.EmployeeLeaves)

	h.departments.Register(g.Group("/departments"))

	lv := g.Group("/leaves")
	lv.GET("/pending", h.PendingLeaves)
	h.leaves.Register(lv)
	status := SetStatus[domain.Leave](h.svc.Leaves, "leave")
	lv.PUT("/:id/status", status)
	lv.PATCH("/:id/status", status)
}

// EmployeeLeaves godoc
// @ID          employeeLeaves
// @Summary     List an employee's leave requests
// @Description Leaves of one employee, newest start date first.
// @Tags        HR
// @Produce     json
// @Param       id   path  string  true  "Employee ID"  format(uuid)
// @Success     200  {array}   domain.Leave
// @Failure     404  {object}  handlers.ErrorResponse  "Employee not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /hr/employees/{id}/leaves [get]
func (h *HRHandlers) EmployeeLeaves(c *gin.Context) {
	rows, err := h.svc.EmployeeLeaves(requestContext(c), c.Param("id"))
	if err != nil {
		failErr(c, "employee", err)
		return
	}
	okCached(c, rows)
}

// PendingLeaves godoc
// @ID          pendingLeaves
// @Summary     List pending leave requests
// @Tags        HR
// @Produce     json
// @Success     200  {array}   domain.Leave
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /hr/leaves/pending [get]
func (h *HRHandlers) PendingLeaves(c *gin.Context) {
	rows, err := h.svc.PendingLeaves(requestContext(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	okCached(c, rows)
}
