package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders. HSTS is only ever sent on
// HTTPS requests; enable it when TLS terminates in front of the service.
type SecurityOptions struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration // 0 means 180 days
}

// baseSecurityHeaders apply to every response. The API serves JSON (plus the
// Swagger UI), so framing, sniffing, referrers and browser features are
// all shut off.
var baseSecurityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
	{"X-Permitted-Cross-Domain-Policies", "none"},
}

// SecurityHeaders sets the baseline hardening headers and, when enabled,
// Strict-Transport-Security on HTTPS requests.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	var hsts string
	if opt.EnableHSTS {
		maxAge := opt.HSTSMaxAge
		if maxAge <= 0 {
			maxAge = defaultHSTSMaxAge
		}
		hsts = "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains"
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for _, kv := range baseSecurityHeaders {
			h.Set(kv[0], kv[1])
		}
		if hsts != "" && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

// PrivateResponses marks responses as belonging to the authenticated caller.
// Clients may keep them for ETag revalidation; shared caches must not store
// them, and the cache key varies with the credential.
func PrivateResponses() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "private, no-cache")
		h.Add("Vary", "Authorization")
		h.Add("Vary", "X-API-Key")
		c.Next()
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or through a
// proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}
