// Auth HTTP handlers: POST /api/auth/login, POST /api/auth/register and
// GET /api/auth/me.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-erp-backend/internal/http/middleware"
	"github.com/tbourn/go-erp-backend/internal/services"
)

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@test.com"`
	Password string `json:"password" binding:"required" example:"password"`
}

// AuthHandlers serves the auth endpoints.
type AuthHandlers struct {
	svc *services.AuthService
}

// NewAuth binds the auth handlers to svc.
func NewAuth(svc *services.AuthService) *AuthHandlers {
	return &AuthHandlers{svc: svc}
}

// Register mounts the auth routes on g.
func (h *AuthHandlers) Register(g *gin.RouterGroup) {
	g.POST("/login", h.Login)
	g.POST("/register", h.SignUp)
	g.GET("/me", middleware.RequireAuth(), h.Me)
}

// Login godoc
// @ID          login
// @Summary     Exchange credentials for an access token
// @Description Unknown emails and wrong passwords get the same 401.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
// @Success     200  {object}  services.Session
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password are required")
		return
	}
	sess, err := h.svc.Login(requestContext(c), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		failErr(c, "user", err)
		return
	}
	ok(c, http.StatusOK, sess)
}

// SignUp godoc
// @ID          register
// @Summary     Create an account
// @Description Unknown roles are stored as "user". Admin roles get their department assigned.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body  services.RegisterInput  true  "Account"
// @Success     201  {object}  services.Session
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandlers) SignUp(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	sess, err := h.svc.Register(requestContext(c), in)
	if err != nil {
		failErr(c, "user", err)
		return
	}
	ok(c, http.StatusCreated, sess)
}

// Me godoc
// @ID          me
// @Summary     Current token claims
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  middleware.Claims
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /auth/me [get]
func (h *AuthHandlers) Me(c *gin.Context) {
	cl, _ := middleware.ClaimsFrom(c)
	ok(c, http.StatusOK, cl)
}
