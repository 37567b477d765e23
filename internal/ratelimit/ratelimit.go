// Package ratelimit implements sliding-window request limits keyed by
// arbitrary strings.
package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is set only when the request was rejected.
	RetryAfter time.Duration
}

// Limiter consumes one slot of key's window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// SetHeaders adds the X-RateLimit-* headers, plus Retry-After on rejection.
func SetHeaders(w http.ResponseWriter, r *Result) {
	if r == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(r.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(r.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(r.ResetAt.Unix(), 10))
	if !r.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(r.RetryAfter.Seconds()))))
	}
}

func retryAfter(allowed bool, resetAt, now time.Time) time.Duration {
	if allowed {
		return 0
	}
	if d := resetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
