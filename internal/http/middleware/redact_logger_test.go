package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestRedact_Patterns(t *testing.T) {
	in := "id=7f1c7d2e-1b5a-4c3e-9f00-0a1b2c3d4e5f&email=jo@initech.io&phone=212-555-1212"
	got := redact(in)
	for _, leak := range []string{"7f1c7d2e", "jo@initech.io", "555-1212"} {
		if strings.Contains(got, leak) {
			t.Fatalf("%q leaked in %q", leak, got)
		}
	}
	for _, tag := range []string{"[REDACTED:id]", "[REDACTED:email]", "[REDACTED:phone]"} {
		if !strings.Contains(got, tag) {
			t.Fatalf("missing %s in %q", tag, got)
		}
	}
	if redact("") != "" {
		t.Fatalf("empty stays empty")
	}
}

func TestRedactingLogger_LevelsMaskingAndContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/api/crm/customers/:id", func(c *gin.Context) {
		// Services log through the request context.
		zerolog.Ctx(c.Request.Context()).Info().Msg("from service")
		c.String(http.StatusOK, "ok")
	})
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/api/crm/customers/42?email=jo@initech.io", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	req.Header.Set("X-Api-Key", "k-123")
	req.Header.Set(requestIDHeader, "rid-9")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	logs := buf.String()
	for _, leak := range []string{"secret-token", "k-123", "jo@initech.io"} {
		if strings.Contains(logs, leak) {
			t.Fatalf("%q leaked into logs:\n%s", leak, logs)
		}
	}
	checks := []string{
		`"message":"from service"`,
		`"request_id":"rid-9"`,
		`"path":"/api/crm/customers/:id"`,
		`"level":"info"`,
		`"level":"warn"`,
		`"level":"error"`,
	}
	for _, want := range checks {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %s in logs:\n%s", want, logs)
		}
	}
}
