package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"empregol-backend/internal/auth"
	"empregol-backend/internal/database"
	"empregol-backend/internal/utilities"
)

// LoginPath is where unauthenticated page requests are sent
const LoginPath = "/login"

// RequirePageRole guards a page route group for a single role. Requests
// without a valid session are redirected to the login page with the
// requested path in "next"; users of another role are redirected to their
// own dashboard.
func RequirePageRole(db *database.DBinstanceStruct, bl auth.JwtBlacklistStore, role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, claims, serr := authenticate(ctx, db, bl)
		if serr != nil {
			if serr.status != http.StatusUnauthorized {
				ctx.AbortWithStatusJSON(serr.status, utilities.ErrorResponse{Error: serr.message})
				return
			}
			ctx.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(ctx.Request.URL.RequestURI()))
			ctx.Abort()
			return
		}

		if user.Role != role {
			ctx.Redirect(http.StatusFound, user.HomePath())
			ctx.Abort()
			return
		}

		ctx.Set(auth.ContextClaimsKey, claims)
		ctx.Set(utilities.ContextUserKey, user)
		ctx.Next()
	}
}
