// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication with HS256 JWTs:
//
//   - TokenManager issues and verifies tokens (it satisfies
//     services.TokenIssuer).
//   - Authenticate() parses a bearer token when one is sent and stores the
//     claims in the Gin context. It never rejects on its own, so public
//     routes such as /auth/login keep working with a stale header.
//   - RequireAuth() rejects requests without valid claims (401).
//   - RequireRole() rejects authenticated requests outside a role set (403).
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

const (
	ctxKeyClaims    = "auth.claims"
	ctxKeyAuthError = "auth.error"

	defaultIssuer = "go-erp-backend"
)

// Claims are the JWT claims carried by access tokens. The subject is the
// user id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access tokens with a shared secret.
type TokenManager struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Now    func() time.Time
}

// NewTokenManager returns a manager for secret with the given token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{Secret: []byte(secret), TTL: ttl, Issuer: defaultIssuer}
}

func (m *TokenManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Issue signs a token for u.
func (m *TokenManager) Issue(u *domain.User) (string, error) {
	now := m.now()
	claims := &Claims{
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

// Parse verifies tokenString and returns its claims.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.Secret, nil
		},
		jwt.WithIssuer(m.Issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Authenticate parses "Authorization: Bearer <token>" when present. Valid
// claims are stored for ClaimsFrom; a parse failure is remembered for
// RequireAuth to report.
func Authenticate(m *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.Set(ctxKeyAuthError, errors.New("invalid authorization header format"))
			c.Next()
			return
		}
		claims, err := m.Parse(strings.TrimSpace(token))
		if err != nil {
			c.Set(ctxKeyAuthError, err)
			c.Next()
			return
		}
		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

// ClaimsFrom returns the verified claims of the request, if any.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ctxKeyClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*Claims)
	return cl, ok && cl != nil
}

// RequireAuth aborts with 401 unless Authenticate stored valid claims.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFrom(c); ok {
			c.Next()
			return
		}
		msg := "authorization required"
		if v, ok := c.Get(ctxKeyAuthError); ok {
			if err, _ := v.(error); errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token has expired"
			} else {
				msg = "invalid token"
			}
		}
		abortJSON(c, http.StatusUnauthorized, "unauthorized", msg)
	}
}

// RequireRole aborts with 403 when the caller's role is not in roles, and
// with 401 when there is no caller.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		cl, ok := ClaimsFrom(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "authorization required")
			return
		}
		if !allowed[cl.Role] {
			abortJSON(c, http.StatusForbidden, "forbidden", "insufficient permissions")
			return
		}
		c.Next()
	}
}

// abortJSON writes the standard error envelope and stops the chain.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    msg,
	})
}
