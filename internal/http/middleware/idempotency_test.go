package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type lookupCall struct {
	scope, route, key string
}

func idemRouter(t *testing.T, opts IdempotencyOptions, lookup IdempotencyLookup, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(IdempotencyValidator(opts, lookup))
	r.POST("/api/crm/customers", handler)
	r.GET("/api/crm/customers", handler)
	return r
}

func TestIdempotencyHelpers_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.RemoteAddr = "198.51.100.7:4000"

	if k, ok := GetIdempotencyKey(c); ok || k != "" {
		t.Fatalf("no key expected")
	}
	if _, ok := ReplayOf(c); ok {
		t.Fatalf("no replay expected")
	}
	c.Set(ctxKeyIdemReplay, "not a replay")
	if _, ok := ReplayOf(c); ok {
		t.Fatalf("wrong type must not count as replay")
	}
	if got := IdempotencyScope(c); got != "ip:198.51.100.7" {
		t.Fatalf("anonymous scope = %q", got)
	}
	c.Set(ctxKeyClaims, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}})
	if got := IdempotencyScope(c); got != "user:u-1" {
		t.Fatalf("user scope = %q", got)
	}
}

func TestIdempotencyValidator_SkipsWithoutHeaderAndNonPost(t *testing.T) {
	called := false
	lookup := func(context.Context, string, string, string, time.Time) (*Replay, error) {
		called = true
		return nil, nil
	}
	r := idemRouter(t, IdempotencyOptions{}, lookup, func(c *gin.Context) {
		if _, ok := GetIdempotencyKey(c); ok {
			t.Fatalf("key must not be stored")
		}
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/crm/customers", nil))
	req := httptest.NewRequest(http.MethodGet, "/api/crm/customers", nil)
	req.Header.Set(HeaderIdempotencyKey, "k1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if called {
		t.Fatalf("lookup must not run")
	}
}

func TestIdempotencyValidator_RejectsBadKeys(t *testing.T) {
	r := idemRouter(t, IdempotencyOptions{MaxLen: 8, Pattern: regexp.MustCompile(`^[a-z0-9]+$`)}, nil,
		func(c *gin.Context) { c.Status(http.StatusCreated) })

	for _, key := range []string{"UPPER", "has space", strings.Repeat("a", 9)} {
		req := httptest.NewRequest(http.MethodPost, "/api/crm/customers", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"bad_request"`) {
			t.Fatalf("key %q: got %d %s", key, w.Code, w.Body.String())
		}
	}
}

func TestIdempotencyValidator_MissAndReplay(t *testing.T) {
	var calls []lookupCall
	lookup := func(_ context.Context, scope, route, key string, _ time.Time) (*Replay, error) {
		calls = append(calls, lookupCall{scope, route, key})
		if key == "seen" {
			return &Replay{ResourceID: "c-1", Status: http.StatusCreated}, nil
		}
		if key == "broken" {
			return nil, errors.New("db down")
		}
		return nil, nil
	}

	var gotReplay *Replay
	var gotKey string
	var bypass bool
	r := idemRouter(t, IdempotencyOptions{}, lookup, func(c *gin.Context) {
		gotKey, _ = GetIdempotencyKey(c)
		gotReplay, _ = ReplayOf(c)
		bypass = IsRateBypass(c)
		c.Status(http.StatusCreated)
	})

	send := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/crm/customers", nil)
		req.RemoteAddr = "192.0.2.1:9000"
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("fresh"); code != http.StatusCreated || gotReplay != nil || bypass || gotKey != "fresh" {
		t.Fatalf("miss: code=%d replay=%v bypass=%v key=%q", code, gotReplay, bypass, gotKey)
	}
	if code := send("broken"); code != http.StatusCreated || gotReplay != nil {
		t.Fatalf("lookup error must be a miss: code=%d replay=%v", code, gotReplay)
	}
	if code := send("seen"); code != http.StatusCreated || gotReplay == nil || gotReplay.ResourceID != "c-1" || !bypass {
		t.Fatalf("replay: code=%d replay=%v bypass=%v", code, gotReplay, bypass)
	}

	want := lookupCall{scope: "ip:192.0.2.1", route: "/api/crm/customers", key: "seen"}
	if len(calls) != 3 || calls[2] != want {
		t.Fatalf("lookup calls = %+v", calls)
	}
}
