package middleware

import (
	"github.com/gin-gonic/gin"

	"empregol-backend/internal/utilities"
)

// SafeHeader sets the security headers shared by API and page responses.
// HSTS is only sent in release mode so local http setups keep working.
func SafeHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Del("X-Powered-By")

		// session bound responses must not be cached by shared proxies
		if c.GetHeader("Authorization") != "" {
			h.Set("Cache-Control", "no-store")
		} else if _, err := c.Cookie(utilities.SessionCookie); err == nil {
			h.Set("Cache-Control", "no-store")
		}

		if gin.Mode() == gin.ReleaseMode {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		c.Next()
	}
}
