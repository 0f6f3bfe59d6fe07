package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// HeadersConfig holds the security headers applied to responses.
type HeadersConfig struct {
	CSP                 string
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	PermissionsPolicy   string
	// SkipPrefixes lists paths served by third-party UIs with their own
	// inline scripts, such as the Swagger UI.
	SkipPrefixes []string
}

// DefaultHeadersConfig returns the headers used by the web app.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP: "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data:; " +
			"object-src 'none'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'",
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		PermissionsPolicy:   "geolocation=(), microphone=(), camera=(), payment=()",
		SkipPrefixes:        []string{"/swagger/"},
	}
}

// SecurityHeaders applies cfg to every response outside cfg.SkipPrefixes.
func SecurityHeaders(cfg HeadersConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, prefix := range cfg.SkipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", cfg.XContentTypeOptions)
		h.Set("X-Frame-Options", cfg.XFrameOptions)
		h.Set("Referrer-Policy", cfg.ReferrerPolicy)
		h.Set("Permissions-Policy", cfg.PermissionsPolicy)
		if cfg.CSP != "" {
			h.Set("Content-Security-Policy", cfg.CSP)
		}
		c.Next()
	}
}
