package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"empregol-backend/internal/utilities"
)

// ContextClaimsKey is the gin context key the authentication middleware stores token claims under
const ContextClaimsKey = "claims"

// LogoutController handles user logout by blacklisting JWT tokens
type LogoutController struct {
	BlacklistStore JwtBlacklistStore
}

// NewLogoutController creates a new instance of LogoutController
func NewLogoutController(blacklistStore JwtBlacklistStore) *LogoutController {
	return &LogoutController{
		BlacklistStore: blacklistStore,
	}
}

// LogoutHandler revokes the session token and clears the session cookie
// @Summary Revoke the current session token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.MessageResponse
// @Failure 401 {object} utilities.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Blacklist store error"
// @Router /auth/logout [post]
func (lc *LogoutController) LogoutHandler(c *gin.Context) {

	claims, err := ExtractClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if claims.ID == "" || claims.ExpiresAt == nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "token can not be revoked"})
		return
	}

	err = lc.BlacklistStore.AddToBlacklist(c.Request.Context(), claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to logout"})
		return
	}

	ClearSessionCookie(c)
	LogAuthAttempt("info", "Logout", "Success", claims.Subject, "")
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Successfully logged out"})
}

// ExtractClaims returns the claims of the validated session token
func ExtractClaims(c *gin.Context) (*jwt.RegisteredClaims, error) {
	claims, ok := c.Get(ContextClaimsKey)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	realClaims, okCast := claims.(*jwt.RegisteredClaims)
	if !okCast {
		return nil, fmt.Errorf("invalid token claims type")
	}
	return realClaims, nil
}
