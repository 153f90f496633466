package security

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Policy lists the headers set on every response.
type Policy struct {
	// CSP directives, joined with "; ".
	CSP         []string
	FrameOption string
	Referrer    string
	Permissions string
	// HSTS is the Strict-Transport-Security max-age; zero disables it.
	HSTS time.Duration
}

// DefaultPolicy fits the report pages and the week websocket feed.
func DefaultPolicy() Policy {
	return Policy{
		CSP: []string{
			"default-src 'self'",
			"script-src 'self'",
			"style-src 'self'",
			"img-src 'self' data:",
			"connect-src 'self' ws: wss:",
			"object-src 'none'",
			"frame-ancestors 'none'",
			"base-uri 'self'",
			"form-action 'self'",
		},
		FrameOption: "DENY",
		Referrer:    "strict-origin-when-cross-origin",
		Permissions: "geolocation=(), microphone=(), camera=(), payment=()",
		HSTS:        365 * 24 * time.Hour,
	}
}

// Headers returns middleware applying p. HSTS is only sent over TLS.
func Headers(p Policy) func(http.Handler) http.Handler {
	fixed := http.Header{}
	fixed.Set("X-Content-Type-Options", "nosniff")
	fixed.Set("Cross-Origin-Opener-Policy", "same-origin")
	fixed.Set("Cross-Origin-Resource-Policy", "same-origin")
	if len(p.CSP) > 0 {
		fixed.Set("Content-Security-Policy", strings.Join(p.CSP, "; "))
	}
	if p.FrameOption != "" {
		fixed.Set("X-Frame-Options", p.FrameOption)
	}
	if p.Referrer != "" {
		fixed.Set("Referrer-Policy", p.Referrer)
	}
	if p.Permissions != "" {
		fixed.Set("Permissions-Policy", p.Permissions)
	}
	hsts := fmt.Sprintf("max-age=%d; includeSubDomains", int64(p.HSTS.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range fixed {
				h[k] = v
			}
			if r.TLS != nil && p.HSTS > 0 {
				h.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CacheFor marks responses as publicly cacheable for d.
func CacheFor(d time.Duration) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int64(d.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}
