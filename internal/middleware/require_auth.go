// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"empregol-backend/internal/auth"
	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// sessionError is a failed authentication with the status it maps to
type sessionError struct {
	status  int
	message string
}

func (e *sessionError) Error() string {
	return e.message
}

func unauthorized(format string, args ...interface{}) *sessionError {
	return &sessionError{status: http.StatusUnauthorized, message: fmt.Sprintf(format, args...)}
}

// authenticate validates the session token of the request, checks it was
// not revoked and loads its user. It is the only place the session user is
// read from the database.
func authenticate(ctx *gin.Context, db *database.DBinstanceStruct, bl auth.JwtBlacklistStore) (model.User, *jwt.RegisteredClaims, *sessionError) {
	tokenString, err := utilities.ExtractToken(ctx)
	if err != nil {
		return model.User{}, nil, unauthorized("%s", err.Error())
	}

	token, err := auth.ValidatedToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.User{}, nil, unauthorized("Access token expired")
		}
		return model.User{}, nil, unauthorized("Failed to validate token: %s", err.Error())
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !token.Valid || !ok {
		return model.User{}, nil, unauthorized("Invalid access token")
	}

	if claims.Issuer != auth.JwtIssuer {
		return model.User{}, nil, unauthorized("Invalid token issuer")
	}

	if bl != nil && claims.ID != "" {
		isBlacklisted, err := bl.IsBlacklisted(ctx.Request.Context(), claims.ID)
		if err != nil {
			return model.User{}, nil, &sessionError{
				status:  http.StatusInternalServerError,
				message: fmt.Sprintf("Failed to validate token: %s", err.Error()),
			}
		}
		if isBlacklisted {
			return model.User{}, nil, unauthorized("Token has been revoked")
		}
	}

	var foundUser model.User
	if err := db.WithContext(ctx.Request.Context()).Where("id = ?", claims.Subject).First(&foundUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, nil, unauthorized("User not exist")
		}
		return model.User{}, nil, &sessionError{
			status:  http.StatusInternalServerError,
			message: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
		}
	}

	return foundUser, claims, nil
}

// RequireAuth validates the session token (Bearer header or session cookie),
// rejects revoked tokens and stores the user and claims in the context
// before allowing access to the endpoint.
func RequireAuth(db *database.DBinstanceStruct, bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, claims, serr := authenticate(ctx, db, bl)
		if serr != nil {
			ctx.AbortWithStatusJSON(serr.status, utilities.ErrorResponse{
				Error: serr.message,
			})
			return
		}

		ctx.Set(auth.ContextClaimsKey, claims)
		ctx.Set(utilities.ContextUserKey, user)
		ctx.Next()
	}
}

// OptionalAuth stores the session user when the request carries a valid
// token and lets anonymous requests through.
func OptionalAuth(db *database.DBinstanceStruct, bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if user, claims, serr := authenticate(ctx, db, bl); serr == nil {
			ctx.Set(auth.ContextClaimsKey, claims)
			ctx.Set(utilities.ContextUserKey, user)
		}
		ctx.Next()
	}
}
