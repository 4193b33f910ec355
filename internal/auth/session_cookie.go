package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"empregol-backend/internal/utilities"
)

// SetSessionCookie stores the session token for page requests
func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utilities.SessionCookie, token, int(TokenLifetime.Seconds()), "/", "", gin.Mode() == gin.ReleaseMode, true)
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utilities.SessionCookie, "", -1, "/", "", gin.Mode() == gin.ReleaseMode, true)
}
