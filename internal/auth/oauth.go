package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	// Auto load .env file
	_ "github.com/joho/godotenv/autoload"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// OauthLoginHandler struct holds the database connection and OAuth2 configuration for handling OAuth login.
type OauthLoginHandler struct {
	DB               *database.DBinstanceStruct
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

type code struct {
	Code string `json:"code" binding:"required"`
}

// errRoleMismatch is returned when an account logs in through the login flow of another role
var errRoleMismatch = errors.New("You already registered as a different user type")

// NewOauthLoginHandler creates a new instance of OauthLoginHandler with the provided database connection and OAuth2 configuration.
func NewOauthLoginHandler(db *database.DBinstanceStruct, oauthConfig *oauth2.Config, userInfoEndpoint string) *OauthLoginHandler {
	return &OauthLoginHandler{
		DB:               db,
		OauthConfig:      oauthConfig,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

func (h *OauthLoginHandler) getUserInfo(c *gin.Context) (model.GoogleUserInfo, error) {

	var code code
	var uInfo model.GoogleUserInfo

	// check does body has code
	if err := c.ShouldBindJSON(&code); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("No authorization code provided: %v", err.Error()),
		})
		return uInfo, err
	}

	ctx := c.Request.Context()

	// Exchange code with google and get userinfo
	token, err := h.OauthConfig.Exchange(ctx, code.Code)
	if err != nil {
		LogAuthAttempt("warning", "Google", "Fail", "", "code exchange failed")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to receive token: %v", err.Error()),
		})
		return uInfo, err
	}

	resp, err := resty.NewWithClient(h.OauthConfig.Client(ctx, token)).
		R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(h.UserInfoEndpoint)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch user information: %v", err.Error()),
		})
		return uInfo, err
	}
	if resp.StatusCode() != http.StatusOK {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch user information: status=%d body=%s", resp.StatusCode(), resp.String()),
		})
		return uInfo, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode())
	}

	uInfo, err = parseUserInfo(resp.Body())
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to decode user info: %v", err.Error()),
		})
		return uInfo, err
	}
	return uInfo, nil
}

// parseUserInfo reads the userinfo payload of the v3 (sub) and v2 (id) endpoints alike
func parseUserInfo(body []byte) (model.GoogleUserInfo, error) {
	if !gjson.ValidBytes(body) {
		return model.GoogleUserInfo{}, errors.New("userinfo is not valid JSON")
	}
	res := gjson.ParseBytes(body)

	info := model.GoogleUserInfo{
		GID:            firstString(res, "sub", "id"),
		Email:          strings.ToLower(res.Get("email").String()),
		FirstName:      res.Get("given_name").String(),
		LastName:       res.Get("family_name").String(),
		ProfilePicture: res.Get("picture").String(),
	}
	if info.FirstName == "" && info.LastName == "" {
		info.FirstName = res.Get("name").String()
	}
	if info.GID == "" {
		return info, errors.New("userinfo has no subject")
	}
	if info.Email == "" {
		return info, errors.New("userinfo has no email")
	}
	return info, nil
}

func firstString(res gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := res.Get(p).String(); v != "" {
			return v
		}
	}
	return ""
}

func (h *OauthLoginHandler) loginOrRegisterUser(userModel model.UserModel, uinfo model.GoogleUserInfo, c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())

	respStatus := http.StatusOK
	record, err := h.findGoogleUser(db, uinfo, userModel.GetRole())

	switch {
	case errors.Is(err, errRoleMismatch):
		LogAuthAttempt("info", "Google", "Fail", uinfo.Email, "role mismatch")
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):

		userModel.FillGoogleInfo(uinfo)

		if err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(userModel).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %v", err.Error()),
			})
			return
		}

		record = userModel
		respStatus = http.StatusCreated

	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %v", err.Error()),
		})
		return
	}

	accessToken, err := GenerateStandardToken(record.GetID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	SetSessionCookie(c, accessToken)
	c.JSON(respStatus, record.GetLoginResponse(accessToken))
	LogAuthAttempt("info", "Google", "Success", uinfo.Email, "")
}

// findGoogleUser looks the account up by google id, then by email. An
// account registered with email and password gets the google id linked.
func (h *OauthLoginHandler) findGoogleUser(db *gorm.DB, uinfo model.GoogleUserInfo, role string) (model.UserModel, error) {
	var user model.User

	err := db.Where("google_id = ?", uinfo.GID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Where("email = ?", uinfo.Email).First(&user).Error
		if err == nil && user.Role == role {
			if err := db.Model(&user).Update("google_id", uinfo.GID).Error; err != nil {
				return nil, err
			}
			log.Printf("linked google account to user %s", user.ID)
		}
	}
	if err != nil {
		return nil, err
	}

	if user.Role != role {
		return nil, errRoleMismatch
	}
	return LoadRoleRecord(db, user)
}
