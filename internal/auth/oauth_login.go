package auth

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	// Auto load .env file
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"empregol-backend/internal/model"
)

// GoogleUserInfoEndpoint is the OpenID userinfo endpoint of Google
const GoogleUserInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

// NewGoogleOauthConfig builds the Google OAuth2 config from environment
func NewGoogleOauthConfig() *oauth2.Config {
	redirect := os.Getenv("OAUTH_REDIRECT_URL")
	if redirect == "" {
		redirect = "http://localhost:8080/api/v1/auth/google/callback"
	}
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"openid",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: redirect,
	}
}

// CandidateGoogleLoginHandler handles Google login for the candidato role, exchanges code for user
// info, checks and creates user in the database, generates an access token, and returns user
// information with the access token.
// @Summary Handles Google login authentication for candidato role
// @Description Checks and creates user in the database, generates an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.CandidateResponse "Login success"
// @Success 201 {object} model.CandidateResponse "Register success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 409 {object} utilities.ErrorResponse "Account registered as empresa"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/candidato [post]
func (h *OauthLoginHandler) CandidateGoogleLoginHandler(c *gin.Context) {

	uInfo, err := h.getUserInfo(c)
	if err != nil {
		return
	}

	h.loginOrRegisterUser(&model.Candidate{}, uInfo, c)
}

// CompanyGoogleLoginHandler handles Google login for the empresa role.
// @Summary Handles Google login authentication for empresa role
// @Description Checks and creates user in the database, generates an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Code body code true "Authentication code from google"
// @Success 200 {object} model.CompanyResponse "Login success"
// @Success 201 {object} model.CompanyResponse "Register success"
// @Failure 400 {object} utilities.ErrorResponse "Fail to receive token or fetch user info"
// @Failure 409 {object} utilities.ErrorResponse "Account registered as candidato"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/empresa [post]
func (h *OauthLoginHandler) CompanyGoogleLoginHandler(c *gin.Context) {

	uInfo, err := h.getUserInfo(c)
	if err != nil {
		return
	}

	h.loginOrRegisterUser(&model.Company{}, uInfo, c)
}

// Callback retrieves a query parameter named "code" from the request and returns it
// in a JSON response.
// @Summary Retrieves a query parameter named "code" from the request and returns it in a JSON response
// @Tags Auth
// @Produce json
// @Param Code query string false "Authentication code from google"
// @Success 200 {object} code
// @Router /auth/google/callback [get]
func (h *OauthLoginHandler) Callback(c *gin.Context) {
	aCode := c.Query("code")
	c.JSON(http.StatusOK, code{
		Code: aCode,
	})
}
