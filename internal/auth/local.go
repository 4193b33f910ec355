// Package auth contains handler relate to log in and create user account
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"empregol-backend/internal/database"
	"empregol-backend/internal/model"
	"empregol-backend/internal/utilities"
)

// MinPasswordLength is the shortest password accepted on registration
const MinPasswordLength = 8

// LocalAuthHandler holds DB reference for email and password handlers.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"nome"`
	Role     string `json:"role" binding:"required,oneof=candidato empresa"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler handles registration (cadastro) by email and password.
// do nothing if email already exist in the database
// do nothing if password is shorter than 8 characters
// @Summary Handles local registration by receiving email and password
// @Description Email must not already exist and password must longer or equal to 8 characters long
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'candidato' or 'empresa'"
// @Success 201 {object} model.CandidateResponse "If role is candidato"
// @Success 201 {object} model.CompanyResponse "If role is empresa"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/cadastro [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email, password, and role (Only 'candidato' or 'empresa') must be provided",
		})
		return
	}
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))

	if len(info.Password) < MinPasswordLength {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Password should longer or equal to %d characters", MinPasswordLength),
		})
		return
	}

	var user model.User
	err := lh.DB.WithContext(c.Request.Context()).Where("email = ?", info.Email).First(&user).Error

	switch {
	case err == nil:
		LogAuthAttempt("info", "Local", "Fail", info.Email, "register with existing email")
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email already registered",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	base := model.User{
		Email:            info.Email,
		Password:         hashedPassword,
		Role:             info.Role,
		EditableUserInfo: model.EditableUserInfo{Name: strings.TrimSpace(info.Name)},
	}

	var record model.UserModel
	switch info.Role {
	case model.RoleCandidate:
		record = &model.Candidate{User: base}
	default:
		record = &model.Company{User: base, EditableCompanyInfo: model.EditableCompanyInfo{TradeName: base.Name}}
	}

	// user and role record are written together or not at all
	err = lh.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Email already registered",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	lh.respondWithToken(c, http.StatusCreated, record)
	LogAuthAttempt("info", "Local", "Success", info.Email, "registered as "+info.Role)
}

// LoginHandler handles local login by receiving email and password
// do nothing if email does not exist in the database
// do nothing if password is incorrect
// @Summary Handles local login by receiving email and password
// @Description Email must exist and password match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.CandidateResponse "If role is candidato"
// @Success 200 {object} model.CompanyResponse "If role is empresa"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Email not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))

	var user model.User
	err := lh.DB.WithContext(c.Request.Context()).Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt("info", "Local", "Fail", info.Email, "unknown email")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	// accounts created through Google have no password
	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		LogAuthAttempt("info", "Local", "Fail", info.Email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Email or password is incorrect",
		})
		return
	}

	record, err := LoadRoleRecord(lh.DB.WithContext(c.Request.Context()), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
		})
		return
	}

	lh.respondWithToken(c, http.StatusOK, record)
	LogAuthAttempt("info", "Local", "Success", info.Email, "")
}

func (lh *LocalAuthHandler) respondWithToken(c *gin.Context, code int, record model.UserModel) {
	accessToken, err := GenerateStandardToken(record.GetID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	SetSessionCookie(c, accessToken)
	c.JSON(code, record.GetLoginResponse(accessToken))
}

// LoadRoleRecord loads the candidate or company record of user with the user preloaded
func LoadRoleRecord(db *gorm.DB, user model.User) (model.UserModel, error) {
	var record model.UserModel
	switch user.Role {
	case model.RoleCandidate:
		record = &model.Candidate{}
	case model.RoleCompany:
		record = &model.Company{}
	default:
		return nil, fmt.Errorf("unknown role %q", user.Role)
	}

	if err := db.Preload("User").Where("user_id = ?", user.ID).First(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
