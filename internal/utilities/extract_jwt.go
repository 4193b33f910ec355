package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie page requests carry the session token in
const SessionCookie = "empregol_session"

// ExtractBearerToken read token from Authorization header
func ExtractBearerToken(c *gin.Context) (string, error) {

	const BearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(BearerSchema) || !strings.EqualFold(authHeader[:len(BearerSchema)], BearerSchema) {
		return "", fmt.Errorf("Invalid authorization header")
	}

	return strings.TrimSpace(authHeader[len(BearerSchema):]), nil

}

// ExtractToken read session token from Authorization header, falling back to
// the session cookie
func ExtractToken(c *gin.Context) (string, error) {
	if token, err := ExtractBearerToken(c); err == nil && token != "" {
		return token, nil
	}

	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return "", fmt.Errorf("Session token not provided")
	}
	return token, nil
}
