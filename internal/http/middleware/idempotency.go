// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for POST create routes. The
// middleware validates the header, looks the key up within the caller's
// scope and the matched route, and when a completed create is found it marks
// the request as a replay so the handler can answer with the stored
// resource instead of inserting again. Replays also bypass rate limiting.
//
// Persistence stays behind the narrow IdempotencyLookup function; handlers
// record completed creates through their own store.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // Replay: the stored outcome
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

// Replay is the stored outcome of an earlier create with the same key.
type Replay struct {
	ResourceID string
	Status     int
}

// IdempotencyOptions configures header validation.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Defaults to ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// IdempotencyLookup returns the stored outcome for (scope, route, key) when
// one exists and has not expired at now. Lookup errors never block the
// request; they are treated as a miss.
type IdempotencyLookup func(ctx context.Context, scope, route, key string, now time.Time) (*Replay, error)

// GetIdempotencyKey returns the validated key stored by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// ReplayOf returns the stored outcome when this request replays an earlier
// create.
func ReplayOf(c *gin.Context) (*Replay, bool) {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return nil, false
	}
	r, ok := v.(*Replay)
	return r, ok && r != nil
}

// IdempotencyScope is the namespace keys are unique in: the authenticated
// user id, or the client IP for anonymous callers.
func IdempotencyScope(c *gin.Context) string {
	if cl, ok := ClaimsFrom(c); ok && cl.Subject != "" {
		return "user:" + cl.Subject
	}
	return "ip:" + c.ClientIP()
}

// IdempotencyValidator validates Idempotency-Key on POST requests, stashes it
// for GetIdempotencyKey and marks replays found through lookup.
//
//   - Header absent, or not a POST: no-op.
//   - Invalid header: 400 bad_request.
//   - Replay found: ReplayOf succeeds and rate limiting is skipped.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortJSON(c, http.StatusBadRequest, "bad_request", "invalid Idempotency-Key")
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			rep, err := lookup(c.Request.Context(), IdempotencyScope(c), c.FullPath(), key, time.Now().UTC())
			if err == nil && rep != nil {
				c.Set(ctxKeyIdemReplay, rep)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
