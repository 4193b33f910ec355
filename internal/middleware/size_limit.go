package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"empregol-backend/internal/utilities"
)

// DefaultMaxBodyBytes bounds JSON request bodies
const DefaultMaxBodyBytes = int64(1 << 20)

// SizeLimit rejects requests whose declared body is larger than maxBodyBytes
// with 413 and caps the reader for bodies of unknown length.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBodyBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
				Error: "Request body too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

		c.Next()
	}
}
