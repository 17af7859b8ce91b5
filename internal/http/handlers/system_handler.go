// System HTTP handlers.
//
// Mounted under /api/system:
//   - /users              list, get, PUT|PATCH, delete (accounts are created via /auth/register)
//   - GET /logs           activity log, newest first (?limit=, default 50, max 200)
//   - GET|PUT /company-profile
//   - GET /summary        per-table row counts
//
// User writes and PUT /company-profile run behind the admin chain passed to
// NewSystem.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/domain"
	"github.com/tbourn/go-erp-backend/internal/services"
	"github.com/tbourn/go-erp-backend/internal/utils"
)

// SystemHandlers serves the system module.
type SystemHandlers struct {
	svc   *services.SystemService
	users *ResourceHandler[domain.User]
	admin []gin.HandlerFunc
}

// NewSystem binds the system handlers to svc. admin guards the write routes;
// with none given they are open like the rest of the module.
func NewSystem(svc *services.SystemService, admin ...gin.HandlerFunc) *SystemHandlers {
	return &SystemHandlers{
		svc:   svc,
		users: NewResourceHandler[domain.User](svc.Users, "user", nil),
		admin: admin,
	}
}

// Register mounts the system routes on g.
func (h *SystemHandlers) Register(g *gin.RouterGroup) {
	users := g.Group("/users")
	users.GET("", h.users.List)
	users.GET("/:id", h.users.Get)

	admin := g.Group("", h.admin...)
	admin.PUT("/users/:id", h.users.Update)
	admin.PATCH("/users/:id", h.users.Update)
	admin.DELETE("/users/:id", h.users.Delete)
	admin.PUT("/company-profile", h.SaveCompanyProfile)

	g.GET("/logs", h.Logs)
	g.GET("/company-profile", h.CompanyProfile)
	g.GET("/summary", h.Summary)
}

// Logs godoc
// @ID          activityLogs
// @Summary     List activity log entries
// @Description Newest entries first. Always answers with an array, even when the log cannot be read.
// @Tags        System
// @Produce     json
// @Param       limit  query  int  false  "Max entries"  minimum(1) maximum(200) default(50)
// @Success     200  {array}  domain.ActivityLog
// @Router      /system/logs [get]
func (h *SystemHandlers) Logs(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), services.DefaultLogLimit)
	okCached(c, h.svc.Logs(requestContext(c), limit))
}

// CompanyProfile godoc
// @ID          getCompanyProfile
// @Summary     Get the company profile
// @Tags        System
// @Produce     json
// @Success     200  {object}  domain.CompanyProfile
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /system/company-profile [get]
func (h *SystemHandlers) CompanyProfile(c *gin.Context) {
	p, err := h.svc.CompanyProfile(requestContext(c))
	if err != nil {
		failErr(c, "company profile", err)
		return
	}
	ok(c, http.StatusOK, p)
}

// SaveCompanyProfile godoc
// @ID          saveCompanyProfile
// @Summary     Replace the company profile
// @Tags        System
// @Accept      json
// @Produce     json
// @Param       body  body  domain.CompanyProfile  true  "Full profile"
// @Success     200  {object}  domain.CompanyProfile
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /system/company-profile [put]
func (h *SystemHandlers) SaveCompanyProfile(c *gin.Context) {
	var p domain.CompanyProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	out, err := h.svc.SaveCompanyProfile(requestContext(c), &p)
	if err != nil {
		failErr(c, "company profile", err)
		return
	}
	ok(c, http.StatusOK, out)
}

// Summary godoc
// @ID          systemSummary
// @Summary     Row counts and newest creation time per table
// @Tags        System
// @Produce     json
// @Success     200  {array}   services.TableSummary
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /system/summary [get]
func (h *SystemHandlers) Summary(c *gin.Context) {
	rows, err := h.svc.Summary(requestContext(c))
	if err != nil {
		failErr(c, "summary", err)
		return
	}
	ok(c, http.StatusOK, rows)
}
