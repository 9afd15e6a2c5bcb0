package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// apiContentSecurityPolicy forbids everything: API responses are JSON, never rendered documents
const apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders adds security-related HTTP headers to responses.
// HSTS is only sent in production, where the service sits behind TLS.
func SecurityHeaders(environment string) gin.HandlerFunc {
	production := strings.EqualFold(environment, "production")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		// Uploaded receipt images are served from the same origin and need a looser policy
		if !strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			h.Set("Content-Security-Policy", apiContentSecurityPolicy)
		}

		if production {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
